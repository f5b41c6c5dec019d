package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyChecks(t *testing.T) {
	tests := []struct {
		name         string
		check        func(*Environment) (bool, error)
		collaborator Collaborator
		message      string
	}{
		{
			name:         "config plugin",
			check:        CheckConfigPluginDependency,
			collaborator: ConfigPlugin,
			message:      `*\Plugin\Config* class required. Please see https://github.com/onassar/TurtlePHP-ConfigPlugin`,
		},
		{
			name:         "memcached cache",
			check:        CheckMemcachedCacheDependency,
			collaborator: MemcachedCache,
			message:      `*\MemcachedCache* class required. Please see https://github.com/onassar/PHP-MemcachedCache`,
		},
		{
			name:         "mysql connection",
			check:        CheckMySQLConnectionDependency,
			collaborator: MySQLConnection,
			message:      `*\MySQLConnection* class required. Please see https://github.com/onassar/PHP-MySQL`,
		},
		{
			name:         "mysql query",
			check:        CheckMySQLQueryDependency,
			collaborator: MySQLQuery,
			message:      `*\MySQLQuery* class required. Please see https://github.com/onassar/PHP-MySQL`,
		},
		{
			name:         "session manager",
			check:        CheckSMSessionDependency,
			collaborator: SMSession,
			message:      `*\SMSession* class required. Please see https://github.com/onassar/PHP-SecureSessions`,
		},
		{
			name:         "js shrink",
			check:        CheckJSShrinkDependency,
			collaborator: JSShrink,
			message:      `*jsShrink* function required. Please see https://github.com/vrana/JsShrink/`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+" present", func(t *testing.T) {
			env := NewEnvironment().Provide(tt.collaborator, struct{}{})
			ok, err := tt.check(env)
			assert.NoError(t, err)
			assert.True(t, ok)
		})

		t.Run(tt.name+" missing", func(t *testing.T) {
			// every other collaborator present
			env := NewEnvironment()
			for _, c := range Collaborators() {
				if c != tt.collaborator {
					env.Provide(c, struct{}{})
				}
			}

			ok, err := tt.check(env)
			assert.False(t, ok)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingDependency)

			var missing *MissingDependencyError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.collaborator, missing.Collaborator)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestCheckDependency_NilEnvironment(t *testing.T) {
	ok, err := CheckDependency(nil, ConfigPlugin)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestCheckDependencies_FirstMissingWins(t *testing.T) {
	env := NewEnvironment().Provide(ConfigPlugin, struct{}{})

	err := CheckDependencies(env, ConfigPlugin, SMSession, JSShrink)
	var missing *MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, SMSession, missing.Collaborator)

	assert.NoError(t, CheckDependencies(env))
	assert.NoError(t, CheckDependencies(env, ConfigPlugin))
}

func TestCheckDirectoryWritePermissions(t *testing.T) {
	t.Run("writable directory", func(t *testing.T) {
		ok, err := CheckDirectoryWritePermissions(t.TempDir())
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "does-not-exist")
		ok, err := CheckDirectoryWritePermissions(path)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrPermission)

		var permErr *PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.Equal(t, path, permErr.Path)
		assert.Equal(t, "*"+path+"* needs to be writable.", err.Error())
	})

	t.Run("read-only directory", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root bypasses directory permissions")
		}

		dir := filepath.Join(t.TempDir(), "readonly")
		require.NoError(t, os.Mkdir(dir, 0555))
		t.Cleanup(func() { os.Chmod(dir, 0755) })

		ok, err := CheckDirectoryWritePermissions(dir)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrPermission)
		assert.Contains(t, err.Error(), dir)
	})
}

func TestParseCollaborator(t *testing.T) {
	tests := []struct {
		input   string
		want    Collaborator
		wantErr bool
	}{
		{input: "MemcachedCache", want: MemcachedCache},
		{input: `\MemcachedCache`, want: MemcachedCache},
		{input: `Plugin\Config`, want: ConfigPlugin},
		{input: `\Plugin\Config`, want: ConfigPlugin},
		{input: "jsShrink", want: JSShrink},
		{input: "Redis", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCollaborator(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Known())
		})
	}
}

func TestCollaborator_Symbol(t *testing.T) {
	assert.Equal(t, `\MySQLQuery`, MySQLQuery.Symbol())
	assert.Equal(t, "jsShrink", JSShrink.Symbol())
	assert.Equal(t, KindFunction, JSShrink.Kind())
	assert.Equal(t, KindClass, SMSession.Kind())
}
