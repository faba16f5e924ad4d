package graphmodel

// MethodNode is a supplemented node kind (not part of the original
// distilled model) used only as an edge endpoint for "calls" edges
// emitted by inspectors that resolve call graphs at method granularity.
// Inspectors that don't analyze method bodies never create one. id is
// "<ownerFQN>#<signature>".
type MethodNode struct {
	Node

	OwnerClassID string
	Signature    string
}

// NewMethodNode creates a MethodNode owned by the class with id
// ownerClassID, identified within that class by signature (e.g.
// "doWork(int,String)").
func NewMethodNode(ownerClassID, signature string) *MethodNode {
	id := ownerClassID + "#" + signature
	return &MethodNode{
		Node:         NewNode(id, NodeTypeMethod, signature),
		OwnerClassID: ownerClassID,
		Signature:    signature,
	}
}
