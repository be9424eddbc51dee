// Package room models a set of reflecting walls together with a source and
// a listener, and expands the source into virtual image sources.
//
// Expansion is breadth first. Order 0 is the direct source. At each further
// order every entry of the previous order is reflected at every wall, in wall
// order. A reflection is only valid while the parent lies strictly in front
// of the wall (positive signed distance); otherwise the child and all of its
// descendants are pruned. Pruned entries stay in the result as placeholders,
// so the result always has
//
//	1 + w + w² + … + w^order
//
// entries for w walls and index i names the same reflection path for as long
// as the walls and the order are unchanged.
//
// Every geometry mutation bumps a generation counter. Consumers keep the last
// generation they rendered and call [Model.Refresh] once per block.
package room
