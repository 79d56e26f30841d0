package compiler

import (
	"fmt"
	gotoken "go/token"

	"github.com/roach88/numberenum/internal/ir"
)

// ReprMarker returns the width marker declared by the first repr(...)
// attribute.
//
// Only the first list-form repr attribute is considered. Its argument must
// be exactly one identifier token. A malformed argument, the layout marker
// "C", or the absence of any repr(...) attribute all report no width.
func ReprMarker(attrs []ir.Attribute) (string, bool) {
	attr, found := firstRepr(attrs)
	if !found {
		return "", false
	}
	if len(attr.Tokens) != 1 {
		return "", false
	}
	marker := attr.Tokens[0]
	if !gotoken.IsIdentifier(marker) || marker == ir.MarkerLayout {
		return "", false
	}
	return marker, true
}

func firstRepr(attrs []ir.Attribute) (ir.Attribute, bool) {
	for _, attr := range attrs {
		if attr.Name == "repr" && attr.List {
			return attr, true
		}
	}
	return ir.Attribute{}, false
}

// missingReprReason explains why ReprMarker found no width.
func missingReprReason(attrs []ir.Attribute) string {
	attr, found := firstRepr(attrs)
	switch {
	case !found:
		return "no repr(...) attribute"
	case len(attr.Tokens) != 1:
		return fmt.Sprintf("%s must name exactly one width, found %d tokens", attr, len(attr.Tokens))
	case attr.Tokens[0] == ir.MarkerLayout:
		return "repr(C) selects a layout, not a numeric width"
	default:
		return fmt.Sprintf("%s is not an identifier", attr.Tokens[0])
	}
}
