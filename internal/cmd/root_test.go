// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRuns(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"-w", "2", "-n", "50", "-r", "2", "--budget", "65536", "--log-level", "error"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "resources:          2")
	assert.Contains(t, out.String(), "deletions:          2")
	assert.Contains(t, out.String(), "peak bytes:")
}

func TestRootCommandArrays(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"-w", "2", "-n", "20", "-r", "1", "--array-len", "8", "--log-level", "error"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "deletions:          1")
}

func TestRootCommandRejectsBadFlags(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--workers", "0"})
	assert.Error(t, root.Execute())

	root = NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--log-level", "loud"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestBindFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 8, "")
	v := viper.New()

	require.NoError(t, bindFlags(v, flags, map[string]string{"stress.workers": "workers"}))
	require.NoError(t, flags.Parse([]string{"--workers", "3"}))
	assert.Equal(t, 3, v.GetInt("stress.workers"))

	err := bindFlags(v, flags, map[string]string{"stress.resources": "resourses"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no flag --resourses")
}

func TestFlagKeysBindToRootFlags(t *testing.T) {
	flags := NewRootCommand().Flags()
	for key, name := range flagKeys {
		assert.NotNil(t, flags.Lookup(name), "flag for %s", key)
	}
}
