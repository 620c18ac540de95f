package keys

import (
	"errors"
	"strings"
	"testing"

	"github.com/ValentinKolb/dConf/lib/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		key, namespace, want string
	}{
		{"name", "e-shop", "e-shop__name"},
		{"token-cs", "gtm", "gtm__token-cs"},
		{"a__key", "a", "a__key"},
		{"b__key", "a", "b__key"},
		{"c__key", "", "c__key"},
		{"name", "", "name"},
		{"name", "null", "name"},
		{"name", "NULL", "name"},
		{"name", "false", "name"},
		{"name", "False", "name"},
		{"name", "nullable", "nullable__name"},
	}

	for _, c := range cases {
		t.Run(c.key+"@"+c.namespace, func(t *testing.T) {
			got, err := Format(c.key, c.namespace)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestFormatLength(t *testing.T) {
	t.Run("exactly 128", func(t *testing.T) {
		key := strings.Repeat("k", MaxKeyLength-len("ns__"))
		got, err := Format(key, "ns")
		require.NoError(t, err)
		assert.Len(t, got, MaxKeyLength)
	})

	t.Run("129 fails", func(t *testing.T) {
		key := strings.Repeat("k", MaxKeyLength-len("ns__")+1)
		_, err := Format(key, "ns")
		require.Error(t, err)
		assert.True(t, errors.Is(err, storage.ErrKeyTooLong))
		assert.Contains(t, err.Error(), "129")
	})

	t.Run("combined key is checked too", func(t *testing.T) {
		_, err := Format("a__"+strings.Repeat("x", MaxKeyLength), "ignored")
		assert.True(t, errors.Is(err, storage.ErrKeyTooLong))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		key := strings.Repeat("ž", MaxKeyLength)
		got, err := Format(key, "")
		require.NoError(t, err)
		assert.Equal(t, key, got)

		_, err = Format(key+"ž", "")
		assert.True(t, errors.Is(err, storage.ErrKeyTooLong))
	})
}

func TestParse(t *testing.T) {
	cases := []struct {
		combined, namespace, key string
	}{
		{"gtm__token", "gtm", "token"},
		{"e-shop__name", "e-shop", "name"},
		{"name", GlobalNamespace, "name"},
		{"a___b", "a", "_b"},
		{"ns__a__b", "ns", "a__b"},
		{"my_ns__key", GlobalNamespace, "my_ns__key"},
		{"__key", GlobalNamespace, "__key"},
		{"ns__", GlobalNamespace, "ns__"},
		{"snake_case", GlobalNamespace, "snake_case"},
	}

	for _, c := range cases {
		t.Run(c.combined, func(t *testing.T) {
			ns, key := Parse(c.combined)
			assert.Equal(t, c.namespace, ns)
			assert.Equal(t, c.key, key)
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	namespaces := []string{"", "null", "false", "gtm", "e-shop", "Shop1"}
	localKeys := []string{"token", "snake_case", "_leading", "trailing_", "with-dash", "číslo"}

	for _, ns := range namespaces {
		for _, key := range localKeys {
			combined, err := Format(key, ns)
			require.NoError(t, err)

			gotNS, gotKey := Parse(combined)
			wantNS := ns
			if !hasNamespace(ns) {
				wantNS = GlobalNamespace
			}
			if wantNS == GlobalNamespace {
				// bare keys are returned as-is
				assert.Equal(t, GlobalNamespace, gotNS, combined)
				assert.Equal(t, key, gotKey, combined)
				continue
			}
			assert.Equal(t, wantNS, gotNS, combined)
			assert.Equal(t, key, gotKey, combined)
		}
	}
}

func TestFormatIgnoresNamespaceForCombinedKeys(t *testing.T) {
	for _, ns := range []string{"", "a", "other", "null"} {
		got, err := Format("x__y", ns)
		require.NoError(t, err)
		assert.Equal(t, "x__y", got)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "nsA__k1", Join("nsA", "k1"))
	ns, key := Parse(Join("nsA", "k1"))
	assert.Equal(t, "nsA", ns)
	assert.Equal(t, "k1", key)
}

func TestIsNumeric(t *testing.T) {
	for _, v := range []string{"0", "5", "-5", "+5", "3.14", ".5", "-.5", "007"} {
		assert.True(t, IsNumeric(v), v)
	}
	for _, v := range []string{"", "abc", "5.", "1e5", "--1", "1.2.3", " 1", "0x10", "+"} {
		assert.False(t, IsNumeric(v), v)
	}
}
