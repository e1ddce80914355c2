package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Static(t *testing.T) {
	p, err := Compile("api://docs")
	require.NoError(t, err)

	assert.Equal(t, "api", p.Scheme)
	assert.False(t, p.IsTemplate())
	assert.Equal(t, "api://docs", p.String())
}

func TestCompile_Template(t *testing.T) {
	p, err := Compile("readme://{projectType}")
	require.NoError(t, err)

	assert.True(t, p.IsTemplate())
	require.Len(t, p.Segments, 1)
	assert.Equal(t, "projectType", p.Segments[0].Param)
}

func TestCompile_Errors(t *testing.T) {
	for _, pattern := range []string{
		"no-scheme",
		"://path",
		"api://",
		"api://{}",
		"api://half{open",
		"api://{dup}/{dup}",
	} {
		_, err := Compile(pattern)
		assert.Error(t, err, "pattern %q must not compile", pattern)
	}
}

func TestMatch_ExtractsParams(t *testing.T) {
	r := New()
	p, err := Compile("readme://{projectType}")
	require.NoError(t, err)
	require.NoError(t, r.Register(p))

	matched, params, ok := r.Match("readme://api")
	require.True(t, ok)
	assert.Same(t, p, matched)
	assert.Equal(t, map[string]string{"projectType": "api"}, params)
}

func TestMatch_SchemeMismatch(t *testing.T) {
	r := New()
	p, _ := Compile("readme://{projectType}")
	require.NoError(t, r.Register(p))

	_, _, ok := r.Match("docs://api")
	assert.False(t, ok)
}

func TestMatch_SegmentCountMismatch(t *testing.T) {
	r := New()
	p, _ := Compile("readme://{projectType}")
	require.NoError(t, r.Register(p))

	_, _, ok := r.Match("readme://api/extra")
	assert.False(t, ok)
}

func TestMatch_MultiSegment(t *testing.T) {
	r := New()
	p, err := Compile("db://tables/{table}/rows/{id}")
	require.NoError(t, err)
	require.NoError(t, r.Register(p))

	_, params, ok := r.Match("db://tables/users/rows/42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"table": "users", "id": "42"}, params)

	// Extraction is textual; no type coercion happens.
	assert.IsType(t, "", params["id"])
}

func TestMatch_ParamRequiresNonEmptySegment(t *testing.T) {
	r := New()
	p, _ := Compile("readme://{projectType}")
	require.NoError(t, r.Register(p))

	_, _, ok := r.Match("readme://")
	assert.False(t, ok)
}

func TestMatch_LiteralExact(t *testing.T) {
	r := New()
	p, _ := Compile("api://docs/v1")
	require.NoError(t, r.Register(p))

	_, _, ok := r.Match("api://docs/v1")
	assert.True(t, ok)

	_, _, ok = r.Match("api://docs/v2")
	assert.False(t, ok)
}

func TestRegister_ConflictSameLiteral(t *testing.T) {
	r := New()
	a, _ := Compile("api://docs")
	b, _ := Compile("api://docs")

	require.NoError(t, r.Register(a))
	assert.Error(t, r.Register(b))
}

func TestRegister_ConflictParamShadowsLiteral(t *testing.T) {
	r := New()
	a, _ := Compile("readme://api")
	b, _ := Compile("readme://{projectType}")

	require.NoError(t, r.Register(a))
	assert.Error(t, r.Register(b), "a template matching every readme URI conflicts with the static one")
}

func TestRegister_NoConflictAcrossSchemes(t *testing.T) {
	r := New()
	a, _ := Compile("readme://{projectType}")
	b, _ := Compile("docs://{projectType}")

	require.NoError(t, r.Register(a))
	assert.NoError(t, r.Register(b))
}

func TestRegister_NoConflictDifferentDepth(t *testing.T) {
	r := New()
	a, _ := Compile("api://docs")
	b, _ := Compile("api://docs/{page}")

	require.NoError(t, r.Register(a))
	assert.NoError(t, r.Register(b))
}

func TestRegister_NoConflictDisjointLiterals(t *testing.T) {
	r := New()
	a, _ := Compile("api://docs/{page}")
	b, _ := Compile("api://guides/{page}")

	require.NoError(t, r.Register(a))
	assert.NoError(t, r.Register(b))
}
