//go:build go1.18

package domain

import "testing"

// FuzzParsePrincipalID verifies parsing never panics on arbitrary input and
// always returns either a valid ID or an error, never both.
func FuzzParsePrincipalID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE identities;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParsePrincipalID(input)
		if err != nil {
			if !id.IsNil() {
				t.Errorf("parse error must return the zero ID, got %s", id)
			}
			return
		}
		round, err := ParsePrincipalID(id.String())
		if err != nil {
			t.Errorf("string form of a parsed ID must re-parse: %v", err)
		}
		if round != id {
			t.Errorf("round-trip mismatch: %s != %s", round, id)
		}
	})
}
