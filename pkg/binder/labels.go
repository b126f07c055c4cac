package binder

import "smallbasic/pkg/diagnostics"

// labelCollector walks one module, including nested bodies, and gathers
// label definitions and goto statements.
type labelCollector struct {
	labels []*BoundLabelStatement
	gotos  []*BoundGoToStatement
}

func (c *labelCollector) VisitBlock(s *BoundBlock) {
	for _, stmt := range s.Statements {
		stmt.Accept(c)
	}
}

func (c *labelCollector) VisitIfStatement(s *BoundIfStatement) {
	s.If.Body.Accept(c)
	for _, part := range s.ElseIfs {
		part.Body.Accept(c)
	}
	if s.Else != nil {
		s.Else.Accept(c)
	}
}

func (c *labelCollector) VisitWhileStatement(s *BoundWhileStatement) { s.Body.Accept(c) }
func (c *labelCollector) VisitForStatement(s *BoundForStatement)     { s.Body.Accept(c) }

func (c *labelCollector) VisitLabelStatement(s *BoundLabelStatement) {
	c.labels = append(c.labels, s)
}

func (c *labelCollector) VisitGoToStatement(s *BoundGoToStatement) {
	c.gotos = append(c.gotos, s)
}

func (c *labelCollector) VisitVariableAssignment(*BoundVariableAssignmentStatement)         {}
func (c *labelCollector) VisitArrayAssignment(*BoundArrayAssignmentStatement)               {}
func (c *labelCollector) VisitPropertyAssignment(*BoundPropertyAssignmentStatement)         {}
func (c *labelCollector) VisitEventAssignment(*BoundEventAssignmentStatement)               {}
func (c *labelCollector) VisitInvocationStatement(*BoundInvocationStatement)                {}
func (c *labelCollector) VisitInvalidExpressionStatement(*BoundInvalidExpressionStatement) {}

// checkLabels reports duplicate labels and gotos to labels that are not
// defined in the same module. Label names are already canonical.
func checkLabels(module *BoundBlock, bag *diagnostics.Bag) {
	c := &labelCollector{}
	module.Accept(c)

	defined := make(map[string]bool, len(c.labels))
	for _, label := range c.labels {
		if defined[label.Label] {
			bag.Report(diagnostics.TwoLabelsWithTheSameName, label.Range(), label.Label)
			continue
		}
		defined[label.Label] = true
	}

	for _, g := range c.gotos {
		if !defined[g.Label] {
			bag.Report(diagnostics.GoToUndefinedLabel, g.Range(), g.Label)
		}
	}
}
