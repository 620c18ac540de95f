package dynconf

// Section is a Configuration bound to one namespace. It has no state of its own.
type Section struct {
	conf      *Configuration
	namespace string
}

// Namespace returns the bound namespace.
func (s *Section) Namespace() string {
	return s.namespace
}

func (s *Section) Get(key string) (string, bool, error) {
	return s.conf.Get(key, s.namespace)
}

func (s *Section) GetMultiple(refs []KeyRef) (map[string]*string, error) {
	return s.conf.GetMultiple(refs, s.namespace)
}

func (s *Section) GetMultipleMandatory(refs []KeyRef) (map[string]string, error) {
	return s.conf.GetMultipleMandatory(refs, s.namespace)
}

func (s *Section) Set(key, value string) error {
	return s.conf.Set(key, value, s.namespace)
}

func (s *Section) Save(key string, value *string) error {
	return s.conf.Save(key, value, s.namespace)
}

func (s *Section) Remove(key string) error {
	return s.conf.Remove(key, s.namespace)
}

func (s *Section) Increment(key string, count int64) (int64, error) {
	return s.conf.Increment(key, count, s.namespace)
}
