package check

import "github.com/JonMunkholm/contentsheet/internal/sheet"

// Spreadsheet ids encode their parent positionally: exercise "3.2" belongs to
// section "3". The parent part is recovered by searching the child id for
// the parent's id pattern and taking the first match.

// ChildRefsValidParent checks that every child id contains a parent id
// (first match of parentPattern) and that this parent id exists in
// parentColumn of parent.
func ChildRefsValidParent(child *sheet.Table, childColumn, parentPattern string, parent *sheet.Table, parentColumn string) Outcome {
	re := compiled(parentPattern)

	parents := make(map[string]bool, parent.Len())
	for _, c := range parent.Column(parentColumn) {
		if !c.IsEmpty() {
			parents[c.String()] = true
		}
	}

	for i := 0; i < child.Len(); i++ {
		id := child.Cell(i, childColumn).String()
		loc := re.FindStringIndex(id)
		if loc == nil {
			return Fail(Value, "row %d: cannot extract a parent id from %q in column %q using %s",
				i+1, id, childColumn, parentPattern)
		}
		ref := id[loc[0]:loc[1]]
		if !parents[ref] {
			return Fail(Referential, "row %d: %q in column %q refers to %q, which does not exist in %q column %q",
				i+1, id, childColumn, ref, parent.Name(), parentColumn)
		}
	}
	return Pass("all ids in column %q refer to an existing id in %q", childColumn, parent.Name())
}

// ParentCoveredByChildren checks that every parent id is the extracted
// parent part (first match of extractPattern) of at least one child id.
// A child id the pattern cannot parse fails the check, unless parent has
// no ids to cover.
func ParentCoveredByChildren(parent *sheet.Table, parentColumn, extractPattern string, child *sheet.Table, childColumn string) Outcome {
	re := compiled(extractPattern)

	hasIDs := false
	for _, c := range parent.Column(parentColumn) {
		if !c.IsEmpty() {
			hasIDs = true
			break
		}
	}
	if !hasIDs {
		return Pass("no ids in column %q to be referred in %q", parentColumn, child.Name())
	}

	covered := make(map[string]bool, child.Len())
	for i := 0; i < child.Len(); i++ {
		id := child.Cell(i, childColumn).String()
		loc := re.FindStringIndex(id)
		if loc == nil {
			return Fail(Value, "%q row %d: cannot extract a parent id from %q in column %q using %s",
				child.Name(), i+1, id, childColumn, extractPattern)
		}
		covered[id[loc[0]:loc[1]]] = true
	}

	for i := 0; i < parent.Len(); i++ {
		c := parent.Cell(i, parentColumn)
		if c.IsEmpty() {
			continue
		}
		if !covered[c.String()] {
			return Fail(Referential, "row %d: id %q in column %q is not referred by any row in %q",
				i+1, c.String(), parentColumn, child.Name())
		}
	}
	return Pass("all ids in column %q are referred in %q", parentColumn, child.Name())
}
