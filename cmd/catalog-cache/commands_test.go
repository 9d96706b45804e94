package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/pkg/di"
	"github.com/goliatone/go-catalog-cache/pkg/testsupport"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"serve", "get", "films-of"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestGetCommand_RequiresTwoArgs(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"get", "film"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.Error(t, root.Execute())
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = newLogger("loud")
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	container, err := di.NewContainerWithDefaults(ctx, testsupport.NewCatalogBackend(t))
	require.NoError(t, err)
	defer container.Close()

	doc, err := lookup(ctx, container, "genre", "g-4")
	require.NoError(t, err)
	assert.Equal(t, "Crime", doc.(catalog.Genre).Name)

	_, err = lookup(ctx, container, "film", "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = lookup(ctx, container, "studio", "x")
	require.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, catalog.Genre{ID: "g-1", Name: "Action"}))
	assert.JSONEq(t, `{"id":"g-1","name":"Action","description":""}`, buf.String())
}
