package i18n

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedDictionaryLoads(t *testing.T) {
	b, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.T(English, "nav.about"); got != "About Us" {
		t.Fatalf("expected About Us, got %s", got)
	}
	if got := b.T(Indonesian, "nav.about"); got != "Tentang Kami" {
		t.Fatalf("expected Tentang Kami, got %s", got)
	}
}

func TestEveryKeyHasBothLocales(t *testing.T) {
	b := MustLoadEmbedded()
	for _, key := range b.Keys() {
		for _, l := range Locales {
			if b.T(l, key) == key {
				t.Errorf("key %s has no %s text", key, l)
			}
		}
	}
}

func TestTranslateMissReturnsKey(t *testing.T) {
	b := MustLoadEmbedded()
	for _, l := range Locales {
		require.Equal(t, "nav.nope", b.T(l, "nav.nope"))
	}
	var nilBundle *Bundle
	require.Equal(t, "x.y", nilBundle.T(English, "x.y"))
}

func TestPartialEntryFallsBackToKey(t *testing.T) {
	b, err := Parse([]byte("only.id:\n  id: Hanya\n"))
	require.NoError(t, err)
	require.Equal(t, "Hanya", b.T(Indonesian, "only.id"))
	require.Equal(t, "only.id", b.T(English, "only.id"))
}

func TestParseRejectsUnknownLocale(t *testing.T) {
	_, err := Parse([]byte("k:\n  fr: Bonjour\n"))
	require.Error(t, err)
}

func TestLoadFSMissingFile(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{}, "missing.yaml")
	require.Error(t, err)
}

func TestParseLocale(t *testing.T) {
	cases := map[string]bool{"id": true, "en": true, " EN ": true, "": false, "en-US": false, "fr": false}
	for in, ok := range cases {
		_, got := ParseLocale(in)
		require.Equal(t, ok, got, in)
	}
	require.Equal(t, "id-ID", Indonesian.Tag().String())
	require.Equal(t, "en-US", English.Tag().String())
	require.Equal(t, English, Indonesian.Other())
}

func TestStoreSetThenGet(t *testing.T) {
	s := NewStore(MustLoadEmbedded(), &MemoryPreference{})
	for _, l := range []Locale{English, Indonesian, English} {
		s.SetLocale(l)
		require.Equal(t, l, s.Locale())
	}
}

func TestStoreIgnoresInvalidLocale(t *testing.T) {
	pref := &MemoryPreference{}
	s := NewStore(MustLoadEmbedded(), pref)
	s.SetLocale(English)
	for _, bad := range []Locale{"", "fr", "EN", "en-US"} {
		s.SetLocale(bad)
		require.Equal(t, English, s.Locale())
	}
	require.Equal(t, 1, pref.Saves())
}

func TestStoreTranslateFollowsLocale(t *testing.T) {
	s := NewStore(MustLoadEmbedded(), nil)
	require.Equal(t, "Proyek", s.T("nav.projects"))
	s.SetLocale(English)
	require.Equal(t, "Projects", s.T("nav.projects"))
	require.Equal(t, "missing.key", s.T("missing.key"))
}

func TestStoreRestoresPersistedPreference(t *testing.T) {
	b := MustLoadEmbedded()

	require.Equal(t, Primary, NewStore(b, &MemoryPreference{}).Locale())

	pref := &MemoryPreference{}
	NewStore(b, pref).SetLocale(English)
	require.Equal(t, English, NewStore(b, pref).Locale())

	bad := &MemoryPreference{}
	require.NoError(t, bad.Save("klingon"))
	require.Equal(t, Primary, NewStore(b, bad).Locale())
}

func TestStoreIdempotentSetDoesNotPersistOrNotify(t *testing.T) {
	pref := &MemoryPreference{}
	s := NewStore(MustLoadEmbedded(), pref)
	notified := 0
	dispose := s.Subscribe(func(Locale) { notified++ })
	defer dispose()

	s.SetLocale(Indonesian)
	require.Zero(t, pref.Saves())
	require.Zero(t, notified)

	s.SetLocale(English)
	require.Equal(t, 1, pref.Saves())
	require.Equal(t, 1, notified)
}

func TestStoreSubscribeDispose(t *testing.T) {
	s := NewStore(MustLoadEmbedded(), nil)
	var seen []Locale
	dispose := s.Subscribe(func(l Locale) { seen = append(seen, l) })
	s.SetLocale(English)
	dispose()
	dispose()
	s.SetLocale(Indonesian)
	require.Equal(t, []Locale{English}, seen)
}

type failingPreference struct{}

func (failingPreference) Load() (string, bool) { return "", false }
func (failingPreference) Save(string) error    { return errors.New("disk full") }

func TestStoreSaveErrorStillSwitches(t *testing.T) {
	s := NewStore(MustLoadEmbedded(), failingPreference{})
	var got error
	s.OnSaveError = func(err error) { got = err }
	s.SetLocale(English)
	require.Equal(t, English, s.Locale())
	require.EqualError(t, got, "disk full")
}

func TestFixedService(t *testing.T) {
	f := Fixed{Bundle: MustLoadEmbedded(), Lang: English}
	f.SetLocale(Indonesian)
	require.Equal(t, English, f.Locale())
	require.Equal(t, "Home", f.T("nav.home"))
	require.Equal(t, Primary, Fixed{}.Locale())
}
