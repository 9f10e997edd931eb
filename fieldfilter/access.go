package fieldfilter

import "github.com/oarkflow/fieldfilter/record"

// parentOf walks all but the last field of path through GetMessage,
// yielding the record whose terminal field path.Terminal() should be read
// from (spec.md §4.2).
func parentOf(r record.Record, path FieldPath) record.Record {
	cur := r
	for _, f := range path.Parent() {
		cur = cur.GetMessage(f)
	}
	return cur
}

// hasField reports presence of the path's terminal field on r, per
// spec.md §4.5: explicit-set test for singular fields, size>0 for
// repeated.
func hasField(r record.Record, path FieldPath) bool {
	parent := parentOf(r, path)
	return parent.Has(path.Terminal())
}

// valueOf reads the terminal scalar field of path on r. Per spec.md §4.2,
// an unset scalar field reads as its kind's zero value; the accessor never
// distinguishes "equals zero" from "unset" here, that's what hasField is
// for.
func valueOf(r record.Record, path FieldPath) any {
	parent := parentOf(r, path)
	return parent.GetScalar(path.Terminal())
}

// messageOf reads the terminal message field of path on r, for Partial.
func messageOf(r record.Record, path FieldPath) record.Record {
	parent := parentOf(r, path)
	return parent.GetMessage(path.Terminal())
}

// repeatedLenOf and repeatedScalarOf expose the terminal repeated field of
// path, for Has and AnyIn.
func repeatedLenOf(r record.Record, path FieldPath) int {
	parent := parentOf(r, path)
	return parent.RepeatedLen(path.Terminal())
}

func repeatedScalarOf(r record.Record, path FieldPath, i int) any {
	parent := parentOf(r, path)
	return parent.GetRepeatedScalar(path.Terminal(), i)
}
