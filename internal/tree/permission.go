package tree

import (
	"cmdtree/internal/command"
	"cmdtree/internal/permission"
)

// findMissingPermission answers which permission blocks the sender from
// reaching any command below node, or nil if at least one branch is open
// to them.
func (t *Tree) findMissingPermission(sender command.Sender, node *Node) *permission.Permission {
	if cached, ok := node.Meta(metaPermission); ok {
		p := cached.(permission.Permission)
		if permission.Allows(t.authority, sender, p) {
			return nil
		}
		return &p
	}
	if node.IsLeaf() {
		comp := node.Component()
		if comp == nil || comp.OwningCommand() == nil {
			return nil
		}
		p := comp.OwningCommand().Permission()
		if permission.Allows(t.authority, sender, p) {
			return nil
		}
		return &p
	}
	// If any child admits the sender there is a valid chain below, so
	// the sender may enter this node.
	var missing []permission.Permission
	for _, child := range node.children {
		m := t.findMissingPermission(sender, child)
		if m == nil {
			return nil
		}
		missing = append(missing, *m)
	}
	p := permission.AnyOf(missing...)
	return &p
}

// updatePermission recomputes the cached permission along the chain of a
// leaf: the leaf caches its command's permission, and every ancestor
// joins it into its existing cache. An intermediary executor either
// overrides the join with its own permission or joins it, depending on
// the settings.
func (t *Tree) updatePermission(leaf *Node) {
	owner := leaf.Component().OwningCommand()
	commandPermission := owner.Permission()
	leaf.SetMeta(metaPermission, commandPermission)

	enforce := t.settings.TreeSettings().EnforceIntermediaryPermissions
	nodes := chain(leaf)
	for i := len(nodes) - 2; i >= 0; i-- {
		ancestor := nodes[i]

		p := commandPermission
		if existing, ok := ancestor.Meta(metaPermission); ok {
			p = permission.AnyOf(commandPermission, existing.(permission.Permission))
		}

		if comp := ancestor.Component(); comp != nil && comp.OwningCommand() != nil {
			intermediary := comp.OwningCommand().Permission()
			if enforce {
				p = intermediary
			} else {
				p = permission.AnyOf(p, intermediary)
			}
		}

		ancestor.SetMeta(metaPermission, p)
	}
}
