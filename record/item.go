package record

// Item is a generic record: an ID plus string-valued fields. It serves
// callers and tests that have no richer record type of their own.
type Item struct {
	ID     string
	Fields map[string][]string
}

// RecordID returns the item's ID.
func (it Item) RecordID() string { return it.ID }

// RecordField returns the values of the named field. The built-in "id"
// field always resolves to the item's ID.
func (it Item) RecordField(name string) []string {
	if name == "id" {
		return []string{it.ID}
	}
	return it.Fields[name]
}

// Ensure Item implements Record
var _ Record = Item{}
