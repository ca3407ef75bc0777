package variant

// Clause represents one call in a rule string
// Example: only(cryo or lab)
type Clause struct {
	Func string `@( "dnp" | "only" | "exclude" )`
	Arg  *Expr  `LParen @@? RParen`
}

// Expr is a disjunction of conjunctions
// Example: cryo and rev2 or lab
type Expr struct {
	Or []*AndExpr `@@ ( "or" @@ )*`
}

// AndExpr is a conjunction of (possibly negated) terms
type AndExpr struct {
	And []*NotExpr `@@ ( "and" @@ )*`
}

// NotExpr is an optionally negated term
type NotExpr struct {
	Negated *NotExpr `  "not" @@`
	Term    *Term    `| @@`
}

// Term is a literal, a variant name or a parenthesized expression
type Term struct {
	Literal *string `  @Bool`
	Name    *string `| @Ident`
	Group   *Expr   `| LParen @@ RParen`
}

// Eval evaluates the expression against the active selection
func (e *Expr) Eval(sel *Selection) bool {
	for _, and := range e.Or {
		if and.Eval(sel) {
			return true
		}
	}
	return false
}

// Eval evaluates the conjunction
func (a *AndExpr) Eval(sel *Selection) bool {
	for _, not := range a.And {
		if !not.Eval(sel) {
			return false
		}
	}
	return true
}

// Eval evaluates the negation or the plain term
func (n *NotExpr) Eval(sel *Selection) bool {
	if n.Negated != nil {
		return !n.Negated.Eval(sel)
	}
	return n.Term.Eval(sel)
}

// Eval evaluates a single term. Unknown names are false.
func (t *Term) Eval(sel *Selection) bool {
	switch {
	case t.Literal != nil:
		return *t.Literal == "true" || *t.Literal == "True"
	case t.Name != nil:
		return sel.Has(*t.Name)
	case t.Group != nil:
		return t.Group.Eval(sel)
	}
	return false
}

// Apply sets the flags this clause asks for
func (c *Clause) Apply(sel *Selection, flags *Flags) {
	switch c.Func {
	case "dnp":
		if c.Arg == nil || c.Arg.Eval(sel) {
			flags.DNP = true
		}
	case "only":
		if c.Arg != nil && !c.Arg.Eval(sel) {
			flags.DNP = true
		}
	case "exclude":
		if c.Arg == nil || c.Arg.Eval(sel) {
			flags.Exclude = true
		}
	}
}

// Names returns every variant name the rule mentions, in order of
// appearance and without duplicates.
func (r *Rule) Names() []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(e *Expr)
	walk = func(e *Expr) {
		if e == nil {
			return
		}
		for _, and := range e.Or {
			for _, not := range and.And {
				n := not
				for n.Negated != nil {
					n = n.Negated
				}
				switch {
				case n.Term.Name != nil:
					if !seen[*n.Term.Name] {
						seen[*n.Term.Name] = true
						names = append(names, *n.Term.Name)
					}
				case n.Term.Group != nil:
					walk(n.Term.Group)
				}
			}
		}
	}
	for _, c := range r.Clauses {
		walk(c.Arg)
	}
	return names
}
