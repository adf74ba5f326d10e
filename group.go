package easel

// LayerGroup is a named collection of layers.
//
// Membership is single: a layer belongs to at most one group, and the
// stack reassigns membership atomically (removal from the old group's
// list precedes insertion into the new one). The group holds member ids
// in stack order; deleting a group never deletes its member layers.
type LayerGroup struct {
	ID        string
	Name      string
	LayerIDs  []string
	Collapsed bool
	Visible   bool
	Locked    bool
}

// contains reports whether the group lists the given layer id.
func (g *LayerGroup) contains(layerID string) bool {
	for _, id := range g.LayerIDs {
		if id == layerID {
			return true
		}
	}
	return false
}

// remove drops the given layer id from the member list, if present.
func (g *LayerGroup) remove(layerID string) {
	for i, id := range g.LayerIDs {
		if id == layerID {
			g.LayerIDs = append(g.LayerIDs[:i], g.LayerIDs[i+1:]...)
			return
		}
	}
}
