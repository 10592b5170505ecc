package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFixture = `{
  "authors": [
    {"name": "Ada Lovelace", "handle": "ada", "bio": "Writes about engines", "followerCount": 40},
    {"name": "Grace Hopper", "handle": "grace", "followerCount": 90}
  ],
  "contents": [
    {"title": "React basics", "body": "<p>Components &amp; props</p>", "category": "Programming",
     "tags": ["JavaScript", "react"], "authorHandle": "ada", "viewCount": 10, "likeCount": 2},
    {"title": "React hooks", "body": "State without classes", "category": "Programming",
     "tags": ["javascript"], "authorHandle": "grace", "viewCount": 50, "likeCount": 9},
    {"title": "Prompting LLMs", "body": "Few-shot examples", "category": "AI",
     "tags": ["llm"], "authorHandle": "ada"},
    {"title": "Unfinished React notes", "category": "Programming", "authorHandle": "ada", "status": "draft"}
  ]
}`

func writeFixture(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// seedTestData imports testFixture into the temp database
func seedTestData(t *testing.T, dir string) {
	t.Helper()
	res := execute(t, nil, "seed", configArg(dir), "--file", writeFixture(t, dir, testFixture))
	require.NoError(t, res.err)
}

func TestSeedCommand(t *testing.T) {
	dir := useTempEnv(t)
	fixture := writeFixture(t, dir, testFixture)

	first := execute(t, nil, "seed", configArg(dir), "-f", fixture)
	require.NoError(t, first.err)
	assert.Equal(t, "Imported 4 post(s) with 4 tag(s); 2 new author(s), 0 existing\n", first.out)

	second := execute(t, nil, "seed", configArg(dir), "-f", fixture)
	require.NoError(t, second.err)
	assert.Contains(t, second.out, "0 new author(s), 2 existing")
}

func TestSeedCommand_Errors(t *testing.T) {
	dir := useTempEnv(t)

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "file flag is required", args: []string{"seed"}, message: `required flag(s) "file" not set`},
		{name: "missing file", args: []string{"seed", "-f", filepath.Join(dir, "nope.json")}, message: "opening fixture"},
		{
			name:    "invalid fixture",
			args:    []string{"seed", "-f", writeFixture(t, dir, `{"authors": [{"handle": "x"}]}`)},
			message: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, nil, append(tt.args, configArg(dir))...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.message)
		})
	}
}

func TestSeedCommand_ClearsSharedCache(t *testing.T) {
	dir := useTempEnv(t)
	mr := miniredis.RunT(t)
	t.Setenv("DISCOVERY_CACHE_BACKEND", "redis")
	t.Setenv("DISCOVERY_CACHE_REDIS_URL", "redis://"+mr.Addr()+"/0")

	require.NoError(t, mr.Set("discovery:search:http:/api/v1/search?q=react", "stale"))
	require.NoError(t, mr.Set("sessions:other", "keep"))

	res := execute(t, nil, "seed", configArg(dir), "-f", writeFixture(t, dir, testFixture))
	require.NoError(t, res.err)

	assert.Equal(t, []string{"sessions:other"}, mr.Keys())
}

func TestSeedCommand_UnreachableCacheDoesNotFail(t *testing.T) {
	dir := useTempEnv(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()
	t.Setenv("DISCOVERY_CACHE_BACKEND", "redis")
	t.Setenv("DISCOVERY_CACHE_REDIS_URL", "redis://"+addr+"/0?max_retries=-1&dial_timeout=200ms")

	res := execute(t, nil, "seed", configArg(dir), "-f", writeFixture(t, dir, testFixture))
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Imported 4 post(s)")
}

func TestSeedFixtureIsValidJSON(t *testing.T) {
	assert.True(t, json.Valid([]byte(testFixture)))
}
