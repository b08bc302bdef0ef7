package markdowncmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-entitychips/internal/annotate"
	"github.com/goliatone/go-entitychips/internal/chips"
	"github.com/goliatone/go-entitychips/internal/commands/fixtures"
	"github.com/goliatone/go-entitychips/internal/icons"
	"github.com/goliatone/go-entitychips/internal/markdown"
	"github.com/goliatone/go-entitychips/internal/registry"
	"github.com/goliatone/go-entitychips/pkg/testsupport"
)

func newSite(t *testing.T) (string, *markdown.Service) {
	t.Helper()
	root := testsupport.WriteTree(t, map[string]string{
		"docs/intro.md":         "Built on @[go] and @[postgres].\n",
		"docs/guides/deploy.md": "Deploy with [Fly](https://fly.io/docs).\n",
	})

	reg := registry.New()
	resolver := icons.NewResolver(icons.NewChain(nil, "https://icons.example/{domain}"), reg)
	engine := annotate.New(reg, chips.NewRenderer(chips.ClassNames{}, resolver))

	svc, err := markdown.NewService(markdown.Config{BasePath: root, Recursive: true}, engine)
	require.NoError(t, err)
	return root, svc
}

func TestRenderDocumentsCommandValidate(t *testing.T) {
	assert.Error(t, RenderDocumentsCommand{}.Validate())
	assert.Error(t, RenderDocumentsCommand{Path: "   "}.Validate())
	assert.NoError(t, RenderDocumentsCommand{Path: "docs"}.Validate())
}

func TestRenderDirectoryWritesHTMLTree(t *testing.T) {
	root, svc := newSite(t)
	out := filepath.Join(t.TempDir(), "site")

	handler := NewRenderDocumentsHandler(svc, root, DirectoryOutput{Dir: out}, nil)
	require.NoError(t, handler.Execute(context.Background(), RenderDocumentsCommand{Path: "docs"}))

	intro, err := os.ReadFile(filepath.Join(out, "docs", "intro.html"))
	require.NoError(t, err)
	assert.Contains(t, string(intro), `data-entity="go"`)
	assert.Contains(t, string(intro), `data-entity="postgres"`)

	deploy, err := os.ReadFile(filepath.Join(out, "docs", "guides", "deploy.html"))
	require.NoError(t, err)
	assert.Contains(t, string(deploy), `<a href="https://fly.io/docs">Fly</a>`)
}

func TestRenderFileAppliesChipToggles(t *testing.T) {
	root, svc := newSite(t)
	var buf bytes.Buffer
	on := true

	handler := NewRenderDocumentsHandler(svc, root, StreamOutput{W: &buf}, nil)
	require.NoError(t, handler.Execute(context.Background(), RenderDocumentsCommand{
		Path:                   "docs/guides/deploy.md",
		TransformMarkdownLinks: &on,
	}))

	assert.Contains(t, buf.String(), `data-type="link"`)
	assert.Contains(t, buf.String(), `<img src="https://icons.example/fly.io"`)
}

func TestRenderMissingPathIsNotFound(t *testing.T) {
	root, svc := newSite(t)
	handler := NewRenderDocumentsHandler(svc, root, nil, nil)

	err := handler.Execute(context.Background(), RenderDocumentsCommand{Path: "nope"})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryNotFound))

	var typed *goerrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, TextCodeNotFound, typed.TextCode)
}

func TestRenderRejectsInvalidMessage(t *testing.T) {
	root, svc := newSite(t)
	handler := NewRenderDocumentsHandler(svc, root, nil, nil)

	err := handler.Execute(context.Background(), RenderDocumentsCommand{})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
}

func TestRegisterMarkdownCommands(t *testing.T) {
	root, svc := newSite(t)
	reg := fixtures.NewRecordingRegistry()

	set, err := RegisterMarkdownCommands(reg, svc, nil, Config{BasePath: root})
	require.NoError(t, err)
	require.NotNil(t, set.Render)
	require.Len(t, reg.Handlers, 1)
	assert.Same(t, set.Render, reg.Handlers[0])

	_, err = RegisterMarkdownCommands(nil, nil, nil, Config{})
	assert.Error(t, err)

	failing := fixtures.NewRecordingRegistry()
	failing.Fail(errors.New("registry closed"))
	_, err = RegisterMarkdownCommands(failing, svc, nil, Config{BasePath: root})
	assert.EqualError(t, err, "registry closed")
}

func TestRegisterRenderCron(t *testing.T) {
	root, svc := newSite(t)
	var buf bytes.Buffer
	set, err := RegisterMarkdownCommands(nil, svc, nil, Config{BasePath: root, Output: StreamOutput{W: &buf}})
	require.NoError(t, err)

	recorder := &fixtures.CronRecorder{}
	require.NoError(t, RegisterRenderCron(recorder.Registrar(), set.Render, command.HandlerConfig{}, RenderDocumentsCommand{Path: "docs/intro.md"}))
	require.Len(t, recorder.Registrations, 1)

	run, ok := recorder.Registrations[0].Handler.(func() error)
	require.True(t, ok)
	require.NoError(t, run())
	assert.Contains(t, buf.String(), `data-entity="go"`)

	assert.NoError(t, RegisterRenderCron(nil, set.Render, command.HandlerConfig{}, RenderDocumentsCommand{}))
}
