package exercise

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(zerolog.Nop())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "let x = 1;", Normalize("  let   x\n=\t1;  "))
	assert.Equal(t, "<h1>bonjour</h1>", Normalize("<H1>Bonjour</H1>"))
	assert.Equal(t, "", Normalize("   \n\t  "))
}

func TestCheckFallbackComparison(t *testing.T) {
	r := newTestRegistry()

	res := r.Check("course", "lesson", "LET  x =  1;", "let x = 1;")
	assert.True(t, res.Success)

	res = r.Check("course", "lesson", "let y = 2;", "let x = 1;")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
	assert.NotEqual(t, GenericFailureMessage, res.Message)
}

func TestCheckCustomValidatorWins(t *testing.T) {
	r := newTestRegistry()
	r.Register("course", "lesson", func(code string) Result {
		return Result{Success: code == "exact"}
	})

	// The solution text is ignored once a validator is registered.
	res := r.Check("course", "lesson", "exact", "something else entirely")
	assert.True(t, res.Success)

	res = r.Check("course", "lesson", "something else entirely", "something else entirely")
	assert.False(t, res.Success)
}

func TestCheckValidatorPanicIsGenericFailure(t *testing.T) {
	r := newTestRegistry()
	r.Register("course", "lesson", func(code string) Result {
		panic("validator bug")
	})

	res := r.Check("course", "lesson", "anything", "solution")
	assert.False(t, res.Success)
	assert.Equal(t, GenericFailureMessage, res.Message)
}

func TestRegisterReplacesExisting(t *testing.T) {
	r := newTestRegistry()
	r.Register("course", "lesson", func(code string) Result {
		return Result{Success: false}
	})
	r.Register("course", "lesson", func(code string) Result {
		return Result{Success: true}
	})

	res := r.Check("course", "lesson", "x", "y")
	assert.True(t, res.Success)
}

func TestBuiltins(t *testing.T) {
	r := newTestRegistry()
	RegisterBuiltins(r)

	fn, ok := r.Resolve("html-bases", "premiere-page")
	require.True(t, ok)

	res := fn("<h1>Bonjour</h1>")
	assert.True(t, res.Success)

	res = fn("<p>pas de titre</p>")
	assert.False(t, res.Success)

	fn, ok = r.Resolve("javascript-intro", "variables")
	require.True(t, ok)

	assert.True(t, fn("let age = 12;").Success)
	assert.True(t, fn("const nom = \"Luxi\";").Success)
	assert.False(t, fn("age = 12;").Success)
	assert.False(t, fn("let age").Success)

	fn, ok = r.Resolve("css-premiers-pas", "selecteurs")
	require.True(t, ok)

	assert.True(t, fn("h1 { color: blue; }").Success)
	assert.False(t, fn("h1 color blue").Success)
	assert.False(t, fn("h1 { font-size: 2em; }").Success)
}
