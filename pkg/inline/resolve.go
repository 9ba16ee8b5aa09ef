package inline

import "github.com/matzehuels/flatgraph/pkg/logical"

// Link resolution, phase two of a build. Every instance already exists, so
// chains can be walked up and down the level tree freely: forward
// references and reads from later sibling groups need no special casing.
//
// Resolution visits levels in instantiation order and inputs in
// declaration order, and each input's links in definition order, which
// makes connection order deterministic for identical inputs.

func (f *flattener) resolveLevel(lv *level) {
	for _, ln := range lv.tree.Nodes() {
		if ln.IsGroup() {
			f.resolveLevel(lv.groups[ln.Name()])
			continue
		}
		n := lv.nodes[ln.Name()]
		for _, in := range n.Inputs() {
			for _, src := range lv.into[in.Def()] {
				f.resolveFrom(lv, in, src)
			}
		}
	}
}

// resolveFrom connects dst to whatever src provides at level lv. dst keeps
// its identity while the walk crosses boundaries, so a reader deep inside
// nested groups accumulates every placeholder on the way plus the final
// producer, if any.
func (f *flattener) resolveFrom(lv *level, dst *InputSocket, src logical.Endpoint) {
	if src.Interface != nil {
		f.resolveBoundary(lv, dst, src.Interface)
		return
	}
	owner := src.Socket.Node()
	if owner.IsGroup() {
		f.resolveGroupOutput(lv, dst, owner, src.Socket.Name())
		return
	}
	out := lv.nodes[owner.Name()].Output(src.Socket.Index())
	connect(out, dst)
}

// resolveBoundary handles a source that is an interface input of lv's
// graph: dst crosses the boundary through the per-(frame, input)
// placeholder, then the walk continues one level up with whatever feeds
// the group node's matching input socket there.
func (f *flattener) resolveBoundary(lv *level, dst *InputSocket, in *logical.InterfaceSocket) {
	gi := f.placeholderFor(lv.frame, in)
	gi.targets = append(gi.targets, dst)
	dst.groupInputs = append(dst.groupInputs, gi)

	if lv.frame == nil {
		// Interface input of the root graph: the chain stays open.
		return
	}
	gsock, ok := lv.frame.Def().Input(in.Name())
	if !ok {
		// The group node does not expose the socket, so nothing can feed
		// it. The chain stays open, same as an unconnected input.
		return
	}
	for _, src := range lv.parent.into[gsock] {
		f.resolveFrom(lv.parent, dst, src)
	}
}

// resolveGroupOutput handles a source that is an output socket of a group
// node: the walk descends into the group's contents and continues with
// whatever feeds the matching interface output there. A pass-through link
// from an interface input re-ascends via resolveBoundary.
func (f *flattener) resolveGroupOutput(lv *level, dst *InputSocket, gn *logical.Node, name string) {
	sub := lv.groups[gn.Name()]
	out, ok := sub.tree.GroupOutput(name)
	if !ok {
		// Mismatch was diagnosed when the group expanded.
		return
	}
	for _, src := range sub.intoOut[out] {
		f.resolveFrom(sub, dst, src)
	}
}

func (f *flattener) placeholderFor(frame *ParentFrame, in *logical.InterfaceSocket) *GroupInput {
	key := placeholderKey{frame: frame, input: in}
	if gi, ok := f.memo[key]; ok {
		return gi
	}
	gi := f.graph.addGroupInput(in, frame)
	f.memo[key] = gi
	return gi
}

func connect(out *OutputSocket, in *InputSocket) {
	out.targets = append(out.targets, in)
	in.sources = append(in.sources, out)
}
