// Package csvstream writes records as CSV without holding the whole output
// in memory.
//
// Records are pulled one at a time, projected into cells, escaped and
// appended to a bounded text buffer. Output leaves the encoder in chunks of
// at most BufferSize characters, encoded in the configured charset:
//
//	enc, err := csvstream.NewEncoder(csvstream.FromSlice(products), toCells,
//		csvstream.WithHeader("Name", "Category", "Price", "Qty"),
//		csvstream.WithPreamble(true))
//	if err != nil {
//		return err
//	}
//	defer enc.Close()
//
//	if _, err := csvstream.Export(enc, w); err != nil {
//		return err
//	}
//
// Cells are quoted when they contain the delimiter, a line feed or a double
// quote, or when they start or end with whitespace. Double quotes are
// doubled. Empty cells are written as nothing at all.
package csvstream
