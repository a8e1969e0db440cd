package topic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drillz/topics"
)

func TestLoader_NoTopic(t *testing.T) {
	l := NewLoader(WithDir("testdata"))

	_, err := l.Load(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNoTopic)
}

func TestLoader_NotFound(t *testing.T) {
	l := NewLoader(WithDir("testdata"))

	for _, name := range []string{"nope", "../topic", "a/b", "."} {
		_, err := l.Load(context.Background(), name)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf, name)
		assert.Equal(t, name, nf.Name)
	}
}

func TestLoader_MissingCheckIsMalformed(t *testing.T) {
	l := NewLoader(WithDir("testdata"))

	m, err := l.Load(context.Background(), "missing-check")
	assert.Nil(t, m)

	var mf *MalformedError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "missing-check", mf.Name)
	assert.Contains(t, err.Error(), `topic file "missing-check" is malformed`)
}

func TestLoader_BadExpressionIsMalformed(t *testing.T) {
	l := NewLoader(WithDir("testdata"))

	_, err := l.Load(context.Background(), "bad-expr")
	var mf *MalformedError
	require.ErrorAs(t, err, &mf)
	assert.Contains(t, err.Error(), `undeclared variable "b"`)
}

func TestLoader_FractionalIntegerAnswerIsMalformed(t *testing.T) {
	src := "settings: {}\ncheck: {}\ntasks:\n" +
		"  - {type: halves, text: hi, vars: [{name: a, oneOf: [3]}], answer: \"a / 2\"}\n"
	l := NewLoader(WithFS(fstest.MapFS{"halves.yaml": {Data: []byte(src)}}))

	_, err := l.Load(context.Background(), "halves")
	var mf *MalformedError
	require.ErrorAs(t, err, &mf)
	assert.Contains(t, err.Error(), "not a whole number")
}

func TestLoader_YmlExtension(t *testing.T) {
	l := NewLoader(WithDir("testdata"))

	m, err := l.Load(context.Background(), "minimal")
	require.NoError(t, err)
	assert.Equal(t, "minimal", m.Name)
	assert.Equal(t, DefaultTitle, m.Settings.DisplayTitle())
}

func TestLoader_DirShadowsFallback(t *testing.T) {
	dir := t.TempDir()
	src := "settings: {title: Local}\ncheck: {}\ntasks:\n  - {type: t, text: hi, accept: [x]}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arithmetic.yaml"), []byte(src), 0o644))

	l := NewLoader(WithDir(dir), WithFS(topics.FS))
	m, err := l.Load(context.Background(), "arithmetic")
	require.NoError(t, err)
	assert.Equal(t, "Local", m.Settings.Title)
}

func TestLoader_MissingDirFallsBack(t *testing.T) {
	l := NewLoader(WithDir(filepath.Join(t.TempDir(), "absent")), WithFS(topics.FS))

	m, err := l.Load(context.Background(), "capitals")
	require.NoError(t, err)
	assert.Equal(t, "European Capitals", m.Settings.Title)

	names, err := l.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"arithmetic", "capitals", "fractions"}, names)
}

func TestLoader_EmbeddedTopicsAreValid(t *testing.T) {
	l := NewLoader(WithFS(topics.FS), WithVersion("v0.1.0"))

	names, err := l.List()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, name := range names {
		_, err := l.Load(context.Background(), name)
		assert.NoError(t, err, name)
	}
}

func TestLoader_List(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml":     {Data: []byte("x")},
		"a.yml":      {Data: []byte("x")},
		"a.yaml":     {Data: []byte("x")},
		"notes.txt":  {Data: []byte("x")},
		"sub/c.yaml": {Data: []byte("x")},
	}
	l := NewLoader(WithFS(fsys))

	names, err := l.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestLoader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(WithDir("testdata")).Load(ctx, "minimal")
	assert.True(t, errors.Is(err, context.Canceled))
}
