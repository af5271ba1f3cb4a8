package term

// Bindings is an immutable linked list pairing bound variable names of two
// terms being compared side by side, innermost binding first. The nil
// *Bindings is the empty list.
type Bindings struct {
	From string
	To   string
	More *Bindings
}

// Bind returns b extended with a pairing of from and to.
func (b *Bindings) Bind(from, to string) *Bindings {
	return &Bindings{From: from, To: to, More: b}
}

// Lookup returns the name paired with from by the innermost binding of from.
func (b *Bindings) Lookup(from string) (string, bool) {
	for ; b != nil; b = b.More {
		if b.From == from {
			return b.To, true
		}
	}
	return "", false
}

// FindTo returns the innermost binding whose To name is to.
func (b *Bindings) FindTo(to string) (*Bindings, bool) {
	for ; b != nil; b = b.More {
		if b.To == to {
			return b, true
		}
	}
	return nil, false
}

// Len returns the number of bindings in the list.
func (b *Bindings) Len() int {
	n := 0
	for ; b != nil; b = b.More {
		n++
	}
	return n
}
