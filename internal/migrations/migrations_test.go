package migrations

import (
	"io"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverURL(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"postgres://u:p@localhost:5432/febamba", "pgx5://u:p@localhost:5432/febamba"},
		{"postgresql://localhost/febamba?sslmode=disable", "pgx5://localhost/febamba?sslmode=disable"},
		{"pgx5://localhost/febamba", "pgx5://localhost/febamba"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DriverURL(tt.in))
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	t.Parallel()

	src, err := iofs.New(files, "sql")
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "up %d", version)
		body, err := io.ReadAll(up)
		up.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, body)

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "down %d", version)
		down.Close()

		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
	assert.Equal(t, uint(1), version)
}
