package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  Config{User: "askai", Name: "askai"},
			want: "host=localhost port=5432 user=askai dbname=askai sslmode=disable",
		},
		{
			name: "explicit host and options",
			cfg: Config{
				User:     "u",
				Name:     "db",
				Host:     "db.internal",
				Port:     6543,
				Password: "pw",
				Options:  map[string]string{"sslmode": "require", "application_name": "askai"},
			},
			want: "host=db.internal port=6543 user=u dbname=db password=pw application_name=askai sslmode=require",
		},
		{
			name: "dsn override",
			cfg:  Config{DSN: "postgres://u@h/db"},
			want: "postgres://u@h/db",
		},
		{
			name:    "missing credentials",
			cfg:     Config{Host: "h"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildPostgresDSN(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  Config{User: "askai", Name: "askai"},
			want: "askai@tcp(127.0.0.1:3306)/askai?charset=utf8mb4&loc=Local&parseTime=True",
		},
		{
			name: "password and extra option",
			cfg: Config{
				User:     "u",
				Password: "pw",
				Name:     "db",
				Host:     "mysql.internal",
				Port:     3307,
				Options:  map[string]string{"tls": "skip-verify"},
			},
			want: "u:pw@tcp(mysql.internal:3307)/db?charset=utf8mb4&loc=Local&parseTime=True&tls=skip-verify",
		},
		{
			name:    "missing credentials",
			cfg:     Config{Host: "localhost"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildMySQLDSN(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSQLiteDSN(t *testing.T) {
	dsn, err := buildSQLiteDSN(Config{})
	require.NoError(t, err)
	require.Equal(t, "file::memory:?cache=shared", dsn)

	dsn, err = buildSQLiteDSN(Config{Path: ":memory:"})
	require.NoError(t, err)
	require.Equal(t, "file::memory:?cache=shared", dsn)

	dsn, err = buildSQLiteDSN(Config{Path: "queries.db"})
	require.NoError(t, err)
	require.Equal(t, "file:queries.db?_journal_mode=WAL", dsn)
}
