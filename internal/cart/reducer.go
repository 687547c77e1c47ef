package cart

// Action is the closed set of cart transitions. The unexported marker keeps
// the set sealed so Reduce covers every variant.
type Action interface {
	isAction()
}

// AddItem merges the item into the cart by identity key: an existing line has
// its quantity incremented by 1 (the payload quantity is ignored on merge), a
// new line is appended with quantity 1.
type AddItem struct {
	Item LineItem
}

// RemoveItem deletes the line matching the key; a miss is a no-op.
type RemoveItem struct {
	ProductID    string
	SelectedSize string
}

// UpdateQuantity sets the quantity on the matching line. The reducer applies
// the value blindly; callers keep quantity >= 1 at the edge.
type UpdateQuantity struct {
	ProductID    string
	SelectedSize string
	Quantity     int
}

// Clear empties the cart.
type Clear struct{}

// Set replaces the cart wholesale; used only for snapshot rehydration.
type Set struct {
	Cart Cart
}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}
func (Set) isAction()            {}

// Reduce applies one action and returns the next cart state. It is pure: the
// input cart is never mutated, and no transition fails. A nil action leaves
// the state unchanged.
func Reduce(c Cart, action Action) Cart {
	switch act := action.(type) {
	case AddItem:
		key := act.Item.Key()
		if i := c.indexOf(key); i >= 0 {
			next := append(Cart(nil), c...)
			next[i].Quantity++
			return next
		}
		item := act.Item
		item.Quantity = 1
		return append(append(Cart(nil), c...), item)

	case RemoveItem:
		key := Key{ProductID: act.ProductID, SelectedSize: act.SelectedSize}
		i := c.indexOf(key)
		if i < 0 {
			return c
		}
		next := append(Cart(nil), c[:i]...)
		return append(next, c[i+1:]...)

	case UpdateQuantity:
		key := Key{ProductID: act.ProductID, SelectedSize: act.SelectedSize}
		i := c.indexOf(key)
		if i < 0 {
			return c
		}
		next := append(Cart(nil), c...)
		next[i].Quantity = act.Quantity
		return next

	case Clear:
		return Cart{}

	case Set:
		return dedupe(act.Cart)

	default:
		return c
	}
}

// dedupe drops later duplicates of an identity key, preserving the order of
// first occurrence. Snapshots written by this package never contain
// duplicates; this guards against hand-edited or stale payloads.
func dedupe(c Cart) Cart {
	next := make(Cart, 0, len(c))
	seen := make(map[Key]struct{}, len(c))
	for _, item := range c {
		if _, ok := seen[item.Key()]; ok {
			continue
		}
		seen[item.Key()] = struct{}{}
		next = append(next, item)
	}
	return next
}
