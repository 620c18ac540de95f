/*
Package dynconf provides namespaced, dynamically changeable configuration values
on top of any storage.Storage backend.

A Configuration formats (key, namespace) pairs into combined keys (see package keys),
validates values and delegates to the storage:

	conf := dynconf.New(store)
	_ = conf.Set("token", "abc", "gtm")
	v, found, _ := conf.Get("token", "gtm")

Batch lookups accept positional keys or aliases:

	values, err := conf.GetMultipleMandatory([]dynconf.KeyRef{
		dynconf.Key("id"),
		dynconf.Alias("secret", "token"),
	}, "gtm")

A Section binds a Configuration to one namespace:

	gtm := conf.Section("gtm")
	n, _ := gtm.Increment("visits", 1)

Values are limited to MaxValueLength characters, combined keys to keys.MaxKeyLength.
Writing a value equal to the stored one does not touch the storage.
*/
package dynconf
