package layercfg

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/randalmurphal/layercfg/pkg/layercfg/schema"
	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// Mask replaces secret values in Explain output.
const Mask = "********"

// Explain writes one line per leaf of tree: the dotted key, the value and
// the provider it came from. Values of fields the schema marks secret are
// masked. sch may be nil.
//
//	database.host  "db.internal"  environment
//	database.port  5432           defaults
//	api_key        ********       file:/etc/app.yaml
func Explain(w io.Writer, tree value.Value, sch *schema.Schema) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	tree.Walk(func(path []string, leaf value.Value) bool {
		text := render(leaf)
		if sch != nil && sch.IsSecret(path) {
			text = Mask
		}
		source := leaf.Source()
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", value.JoinPath(path...), text, source)
		return true
	})
	return tw.Flush()
}

// render formats a leaf on one line.
func render(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return "null"
	case value.KindString:
		s, _ := v.AsString()
		return strconv.Quote(s)
	case value.KindBool, value.KindNumber:
		s, _ := v.ScalarText()
		return s
	case value.KindSequence:
		items := v.Items()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = render(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		keys := v.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			child, _ := v.Get(k)
			parts[i] = k + ": " + render(child)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
}
