package interpreter

import (
	"errors"
	"log/slog"

	"minipy/ast"
	"minipy/internals"
	"minipy/object"
)

// Signal is the control outcome of executing a statement
type Signal int

const (
	SignalNormal Signal = iota
	SignalBreak
	SignalContinue
)

func (s Signal) String() string {
	switch s {
	case SignalBreak:
		return "break"
	case SignalContinue:
		return "continue"
	default:
		return "normal"
	}
}

type Option func(*Interpreter)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithTrace registers fn to be called before every expression evaluation
func WithTrace(fn func(ast.Expression)) Option {
	return func(i *Interpreter) {
		i.trace = fn
	}
}

type Interpreter struct {
	env    *object.Environment
	logger *slog.Logger
	trace  func(ast.Expression)
}

func NewInterpreter(env *object.Environment, opts ...Option) *Interpreter {
	if env == nil {
		env = object.NewEnvironment()
	}
	i := &Interpreter{
		env:    env,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Interpreter) Env() *object.Environment { return i.env }

// Run executes the statements in order and stops at the first error. The
// returned value is that of the last statement when it is a bare expression.
func (i *Interpreter) Run(program *ast.Program) (object.Object, error) {
	var result object.Object
	for _, stmt := range program.Statements {
		value, err := i.RunStatement(stmt)
		if err != nil {
			return nil, err
		}
		result = value
	}
	return result, nil
}

// RunStatement executes one top level statement. A bare expression yields
// its value, every other statement yields nil. Break and continue signals
// reaching this level are dropped.
func (i *Interpreter) RunStatement(stmt ast.Statement) (object.Object, error) {
	if es, ok := stmt.(*ast.ExpressionStatement); ok {
		return i.Eval(es.Expression)
	}

	signal, err := i.Exec(stmt)
	if err != nil {
		return nil, err
	}
	if signal != SignalNormal {
		i.logger.Debug("control signal outside of a loop ignored",
			"signal", signal, "line", stmt.GetToken().Row)
	}
	return nil, nil
}

func (i *Interpreter) Exec(stmt ast.Statement) (Signal, error) {
	switch nd := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := i.Eval(nd.Expression)
		return SignalNormal, err

	case *ast.AssignStatement:
		return SignalNormal, i.execAssign(nd)

	case *ast.BlockStatement:
		return i.execBlock(nd)

	case *ast.IfStatement:
		return i.execIf(nd)

	case *ast.WhileStatement:
		return i.execWhile(nd)

	case *ast.BreakStatement:
		return SignalBreak, nil

	case *ast.ContinueStatement:
		return SignalContinue, nil
	}

	tok := stmt.GetToken()
	return SignalNormal, internals.NewErrorAt(internals.TypeError, tok.Row, tok.Col, "unsupported statement %s", stmt.String())
}

func (i *Interpreter) execAssign(nd *ast.AssignStatement) error {
	var current object.Object
	if nd.Operator != "" {
		// the target is read before the value is evaluated
		value, err := i.evalIdentifier(nd.Name)
		if err != nil {
			return err
		}
		current = value
	}

	value, err := i.Eval(nd.Value)
	if err != nil {
		return err
	}

	if current != nil {
		value, err = object.BinaryOp(nd.Operator, current, value)
		if err != nil {
			return at(nd, err)
		}
	}

	i.env.Bind(nd.Name.Value, value)
	return nil
}

func (i *Interpreter) execBlock(block *ast.BlockStatement) (Signal, error) {
	for _, statement := range block.Body {
		signal, err := i.Exec(statement)
		if err != nil || signal != SignalNormal {
			return signal, err
		}
	}
	return SignalNormal, nil
}

func (i *Interpreter) execIf(nd *ast.IfStatement) (Signal, error) {
	for _, branch := range nd.Branches {
		condition, err := i.Eval(branch.Condition)
		if err != nil {
			return SignalNormal, err
		}
		if object.Truthy(condition) {
			return i.execBlock(branch.Body)
		}
	}

	if nd.Alternative != nil {
		return i.execBlock(nd.Alternative)
	}
	return SignalNormal, nil
}

func (i *Interpreter) execWhile(nd *ast.WhileStatement) (Signal, error) {
	iterations := 0
	for {
		condition, err := i.Eval(nd.Condition)
		if err != nil {
			return SignalNormal, err
		}
		if !object.Truthy(condition) {
			break
		}

		iterations++
		signal, err := i.execBlock(nd.Body)
		if err != nil {
			return SignalNormal, err
		}
		if signal == SignalBreak {
			// absorbed here, the else clause is skipped
			i.logger.Debug("loop left by break", "line", nd.Token.Row, "iterations", iterations)
			return SignalNormal, nil
		}
	}

	i.logger.Debug("loop condition exhausted", "line", nd.Token.Row, "iterations", iterations,
		"else", nd.Alternative != nil)

	if nd.Alternative != nil {
		// a break in here belongs to an enclosing loop
		return i.execBlock(nd.Alternative)
	}
	return SignalNormal, nil
}

func (i *Interpreter) Eval(expr ast.Expression) (object.Object, error) {
	if i.trace != nil {
		i.trace(expr)
	}

	switch nd := expr.(type) {
	case *ast.Literal:
		return nd.Value, nil

	case *ast.Identifier:
		return i.evalIdentifier(nd)

	case *ast.UnaryExpression:
		right, err := i.Eval(nd.Right)
		if err != nil {
			return nil, err
		}
		result, err := object.UnaryOp(nd.Operator, right)
		if err != nil {
			return nil, at(nd, err)
		}
		return result, nil

	case *ast.BinaryExpression:
		left, err := i.Eval(nd.Left)
		if err != nil {
			return nil, err
		}
		right, err := i.Eval(nd.Right)
		if err != nil {
			return nil, err
		}
		result, err := object.BinaryOp(nd.Operator, left, right)
		if err != nil {
			return nil, at(nd, err)
		}
		return result, nil

	case *ast.CompareChain:
		return i.evalCompareChain(nd)
	}

	tok := expr.GetToken()
	return nil, internals.NewErrorAt(internals.TypeError, tok.Row, tok.Col, "unsupported expression %s", expr.String())
}

func (i *Interpreter) evalIdentifier(identifier *ast.Identifier) (object.Object, error) {
	if obj, ok := i.env.Resolve(identifier.Value); ok {
		return obj, nil
	}
	tok := identifier.Token
	return nil, internals.NewErrorAt(internals.NameError, tok.Row, tok.Col, "name '%s' is not defined", identifier.Value)
}

// a < b < c is (a < b) and (b < c) with b evaluated once, evaluation stops
// at the first false pair
func (i *Interpreter) evalCompareChain(nd *ast.CompareChain) (object.Object, error) {
	left, err := i.Eval(nd.Operands[0])
	if err != nil {
		return nil, err
	}

	for idx, op := range nd.Operators {
		operand := nd.Operands[idx+1]
		right, err := i.Eval(operand)
		if err != nil {
			return nil, err
		}

		ok, err := object.Compare(op, left, right)
		if err != nil {
			return nil, at(operand, err)
		}
		if !ok {
			return object.NativeBoolean(ok), nil
		}
		left = right
	}

	return object.NativeBoolean(true), nil
}

// at attaches the position of node to value model errors, which carry none
func at(node ast.Node, err error) error {
	var langErr *internals.Error
	if errors.As(err, &langErr) && !langErr.Positioned() {
		tok := node.GetToken()
		return internals.NewErrorAt(langErr.Kind, tok.Row, tok.Col, "%s", langErr.Msg)
	}
	return err
}
