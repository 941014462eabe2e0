package document

import (
	"fmt"
	"strings"

	"github.com/meikuraledutech/nodegraph"
)

// ToMermaid renders g as a Mermaid flowchart. Execute connections are drawn
// as thick arrows, value connections as labelled thin ones.
func ToMermaid(g *nodegraph.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	alias := make(map[string]string)
	for i, n := range g.Nodes() {
		b := n.Core()
		alias[b.ID()] = fmt.Sprintf("n%d", i)
		label := strings.ReplaceAll(b.Name(), `"`, "'")
		if c, ok := n.(*nodegraph.Constant); ok {
			label = fmt.Sprintf("%s = %s", c.Cell().Type(), c.Cell().String())
		}
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", alias[b.ID()], label)
	}
	for _, c := range g.Connections() {
		src, tgt := alias[c.Source.Node], alias[c.Target.Node]
		if g.KindOf(c) == nodegraph.ExecuteKind {
			fmt.Fprintf(&sb, "    %s ==> %s\n", src, tgt)
			continue
		}
		fmt.Fprintf(&sb, "    %s -->|%d:%d| %s\n", src, c.Source.Index, c.Target.Index, tgt)
	}
	return sb.String()
}
