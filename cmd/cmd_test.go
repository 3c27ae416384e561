package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogforge/blogd/config"
	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store/memstore"
)

func TestSetAdmin(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	require.NoError(t, st.Users.Create(ctx, &models.User{Email: "alice@example.com", Username: "alice"}))

	user, err := setAdmin(ctx, st, "  Alice@Example.com ", true)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	user, err = setAdmin(ctx, st, "alice@example.com", false)
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)

	_, err = setAdmin(ctx, st, "nobody@example.com", true)
	assert.ErrorContains(t, err, "no account")
}

func TestOpenStore(t *testing.T) {
	st, err := openStore(context.Background(), config.AppConfig{DBDriver: "memory"})
	require.NoError(t, err)
	assert.NotNil(t, st.Users)

	_, err = openStore(context.Background(), config.AppConfig{DBDriver: "sqlite"})
	assert.Error(t, err)
}
