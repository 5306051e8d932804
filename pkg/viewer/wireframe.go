package viewer

import "github.com/taigrr/vitrine/pkg/models"

// SetWireframe sets the wireframe flag on every material reachable from
// root and returns how many materials were touched. A nil root is a no-op.
func SetWireframe(root *models.Node, value bool) int {
	if root == nil {
		return 0
	}
	n := 0
	root.Traverse(func(node *models.Node) {
		if !node.IsMesh() {
			return
		}
		switch slot := node.Material.(type) {
		case models.Single:
			if slot.Material != nil {
				slot.Material.SetWireframe(value)
				n++
			}
		case models.Multiple:
			for _, m := range slot {
				if m != nil {
					m.SetWireframe(value)
					n++
				}
			}
		}
	})
	return n
}
