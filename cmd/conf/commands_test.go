package conf

import (
	"testing"

	"github.com/ValentinKolb/dConf/lib/dynconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRefs(t *testing.T) {
	refs, err := parseRefs([]string{"id", "secret=token", "shop=global__name"})
	require.NoError(t, err)
	assert.Equal(t, []dynconf.KeyRef{
		dynconf.Key("id"),
		dynconf.Alias("secret", "token"),
		dynconf.Alias("shop", "global__name"),
	}, refs)

	for _, arg := range []string{"=token", "alias=", "="} {
		_, err := parseRefs([]string{arg})
		assert.Error(t, err, arg)
	}
}

func TestDumpLines(t *testing.T) {
	lines := dumpLines(map[string]string{
		"gtm__token": "abc",
		"a__b":       "1",
		"a_b__c":     "2",
	})
	assert.Equal(t, []string{"a__b=1", "a_b__c=2", "gtm__token=abc"}, lines)
	assert.Empty(t, dumpLines(nil))
}

func TestGetKeys(t *testing.T) {
	perfKeySpread = 3
	defer func() { perfKeySpread = 100 }()

	getKey, iter := getKeys("set")
	assert.Equal(t, "set-0", getKey(0))
	assert.Equal(t, "set-1", getKey(4))

	var all []string
	iter(func(k string) { all = append(all, k) })
	assert.Equal(t, []string{"set-0", "set-1", "set-2"}, all)
}

func TestShouldSkip(t *testing.T) {
	perfSkip = []string{"set", "mixed"}
	defer func() { perfSkip = nil }()

	assert.True(t, shouldSkip("set"))
	assert.False(t, shouldSkip("get"))
}
