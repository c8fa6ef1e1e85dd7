package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	t.Run("comments and blank lines", func(t *testing.T) {
		got := SplitStatements(`
-- products
CREATE TABLE a (
  id STRING(36) NOT NULL,
) PRIMARY KEY (id);

-- index
CREATE INDEX a_by_id ON a(id);
`)
		require.Len(t, got, 2)
		assert.Equal(t, "CREATE TABLE a (\nid STRING(36) NOT NULL,\n) PRIMARY KEY (id)", got[0])
		assert.Equal(t, "CREATE INDEX a_by_id ON a(id)", got[1])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, SplitStatements("-- nothing\n\n"))
	})
}

func TestRepositoryMigrationsParse(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "..", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		require.NoError(t, err)

		for _, stmt := range SplitStatements(string(content)) {
			assert.NotContains(t, stmt, ";", file)
			assert.Regexp(t, `^(CREATE|ALTER|DROP) `, stmt, file)
		}
	}
}
