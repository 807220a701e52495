package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/depscan/internal/models"
)

func TestPyProjectPEP621(t *testing.T) {
	content := []byte(`
[project]
name = "demo"
dependencies = [
    "requests>=2.28.0",
    "flask[async]>=2.0",
    "django==4.2",
]
`)

	p := &PyProjectParser{}
	reqs, failures, err := p.Parse("demo/pyproject.toml", content)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, reqs, 3)

	assert.Equal(t, "requests", reqs[0].Name)
	assert.Equal(t, ">=2.28.0", reqs[0].SpecText())
	assert.Equal(t, []string{"async"}, reqs[1].Extras)
	assert.Equal(t, "==4.2", reqs[2].SpecText())
}

func TestPyProjectPoetry(t *testing.T) {
	content := []byte(`
[tool.poetry.dependencies]
python = "^3.10"
requests = "^2.28.0"
flask = "~2.1.0"
click = "8.1.3"
anyio = "*"
rich = { version = ">=12.0,<13.0" }
`)

	p := &PyProjectParser{}
	reqs, failures, err := p.Parse("demo/pyproject.toml", content)
	require.NoError(t, err)
	assert.Empty(t, failures)

	byName := make(map[string]models.Requirement)
	for _, r := range reqs {
		byName[r.Name] = r
	}
	assert.NotContains(t, byName, "python")

	assert.Equal(t, ">=2.28.0,<3", byName["requests"].SpecText())
	assert.Equal(t, "~=2.1.0", byName["flask"].SpecText())
	assert.Equal(t, "==8.1.3", byName["click"].SpecText())
	assert.Empty(t, byName["anyio"].Constraints)
	assert.Equal(t, ">=12.0,<13.0", byName["rich"].SpecText())
}

func TestPyProjectCaretZeroMajor(t *testing.T) {
	constraints, err := poetryConstraints("^0.3.2")
	require.NoError(t, err)
	require.Len(t, constraints, 2)
	assert.Equal(t, ">=0.3.2", constraints[0].String())
	assert.Equal(t, "<0.4", constraints[1].String())
}

func TestPyProjectInvalidTOML(t *testing.T) {
	p := &PyProjectParser{}
	_, _, err := p.Parse("demo/pyproject.toml", []byte("[project\nbroken"))
	require.Error(t, err)
}

func TestSetupPyInstallRequires(t *testing.T) {
	content := []byte(`
from setuptools import setup

setup(
    name="demo",
    install_requires=[
        "requests>=2.28.0",
        'click>=8.0',
        "numpy==1.21.*",
    ],
    extras_require={"dev": ["pytest"]},
)
`)

	p := &SetupPyParser{}
	reqs, failures, err := p.Parse("demo/setup.py", content)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, reqs, 3)

	assert.Equal(t, "requests", reqs[0].Name)
	assert.Equal(t, "click", reqs[1].Name)
	assert.Equal(t, "==1.21.*", reqs[2].SpecText())
}

func TestSetupPyWithoutInstallRequires(t *testing.T) {
	p := &SetupPyParser{}
	reqs, failures, err := p.Parse("demo/setup.py", []byte("setup(name='demo')"))
	require.NoError(t, err)
	assert.Empty(t, reqs)
	assert.Empty(t, failures)
}
