package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptMissingFillsRequiredFields(t *testing.T) {
	cfg := Default()
	var out strings.Builder

	err := PromptMissing(&cfg, PromptOptions{
		In:  strings.NewReader("shop.example.com\ndeploy\n/var/www/shop\n"),
		Out: &out,
	})
	require.NoError(t, err)

	assert.Equal(t, "shop.example.com", cfg.Remote.Host)
	assert.Equal(t, "deploy", cfg.Remote.User)
	assert.Equal(t, "/var/www/shop", cfg.Remote.Path)
	assert.Contains(t, out.String(), "Remote host:")
	assert.Contains(t, out.String(), "Remote WordPress path:")
}

func TestPromptMissingSkipsSetFields(t *testing.T) {
	cfg := completeConfig()
	var out strings.Builder

	err := PromptMissing(&cfg, PromptOptions{
		In:  strings.NewReader(""),
		Out: &out,
	})
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestPromptMissingAsksDatabasePassword(t *testing.T) {
	cfg := completeConfig()
	cfg.Database.Dump = "db.sql.gz"
	cfg.Database.Name = "shop"
	cfg.Database.User = "shop_admin"
	var out strings.Builder

	err := PromptMissing(&cfg, PromptOptions{
		In:           strings.NewReader(""),
		Out:          &out,
		PasswordFunc: func() (string, error) { return "s3cret", nil },
	})
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Contains(t, out.String(), "Database password for shop_admin")
}

func TestPromptMissingKeepsExistingPassword(t *testing.T) {
	cfg := completeConfig()
	cfg.Database.Dump = "db.sql.gz"
	cfg.Database.Password = "already-set"
	var out strings.Builder

	err := PromptMissing(&cfg, PromptOptions{
		In:  strings.NewReader(""),
		Out: &out,
		PasswordFunc: func() (string, error) {
			t.Fatal("password prompt should not run")
			return "", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "already-set", cfg.Database.Password)
}

func TestPromptMissingEmptyAnswer(t *testing.T) {
	cfg := Default()

	err := PromptMissing(&cfg, PromptOptions{
		In:  strings.NewReader("\n"),
		Out: &strings.Builder{},
	})
	require.ErrorIs(t, err, ErrMissingSettings)
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false}, // end of input counts as no
		{"sure\n", false},
	}
	for _, tc := range cases {
		var out strings.Builder
		got, err := Confirm(strings.NewReader(tc.answer), &out, "Deploy to shop.example.com?")
		require.NoError(t, err)
		assert.Equalf(t, tc.want, got, "answer %q", tc.answer)
		assert.Contains(t, out.String(), "[y/N]")
	}
}
