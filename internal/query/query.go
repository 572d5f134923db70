// Package query turns field/operator/value conditions into gorm clause
// expressions. Repositories use it for every lookup so that field names
// are checked against the model schema before any SQL is built.
package query

import (
	"fmt"
	"reflect"

	apperrors "github.com/welldanyogia/webrana-mailarchive/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Op is a comparison operator
type Op string

const (
	Eq         Op = "eq"
	Ne         Op = "ne"
	Lt         Op = "lt"
	Le         Op = "le"
	Gt         Op = "gt"
	Ge         Op = "ge"
	Like       Op = "like"
	NotLike    Op = "not_like"
	In         Op = "in"
	NotIn      Op = "not_in"
	Between    Op = "between"
	NotBetween Op = "not_between"
	Is         Op = "is"
	IsNot      Op = "is_not"
)

// Condition is a filter that can be compiled against a model schema
type Condition interface {
	build(s *schema.Schema) (clause.Expression, error)
}

// Field compares one model field with a value
type Field struct {
	Name  string
	Op    Op
	Value any
}

// F is shorthand for Field{Name, Op, Value}
func F(name string, op Op, value any) Field {
	return Field{Name: name, Op: op, Value: value}
}

// Where is shorthand for an equality condition
func Where(name string, value any) Field {
	return Field{Name: name, Op: Eq, Value: value}
}

type andCondition []Condition

type orCondition []Condition

type notCondition struct{ c Condition }

// And matches when every condition matches
func And(conds ...Condition) Condition { return andCondition(conds) }

// Or matches when any condition matches
func Or(conds ...Condition) Condition { return orCondition(conds) }

// Not negates a condition
func Not(c Condition) Condition { return notCondition{c: c} }

// Order sorts by one field
type Order struct {
	Field string
	Desc  bool
}

// Options are the read parameters accepted by Apply. Conditions are ANDed.
type Options struct {
	Conditions []Condition
	Limit      int
	Offset     int
	OrderBy    []Order
}

// Apply scopes db to model and adds the filters, ordering and paging in opts.
// Unknown fields and malformed values fail with ErrInvalidInput.
func Apply(db *gorm.DB, model any, opts Options) (*gorm.DB, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("failed to parse model schema: %w", err)
	}

	tx := db.Model(model)

	if len(opts.Conditions) > 0 {
		expr, err := andCondition(opts.Conditions).build(stmt.Schema)
		if err != nil {
			return nil, err
		}
		if expr != nil {
			tx = tx.Clauses(clause.Where{Exprs: []clause.Expression{expr}})
		}
	}

	for _, o := range opts.OrderBy {
		col, err := column(stmt.Schema, o.Field)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: col, Desc: o.Desc})
	}

	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, fmt.Errorf("%w: negative limit or offset", apperrors.ErrInvalidInput)
	}
	if opts.Limit > 0 {
		tx = tx.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		tx = tx.Offset(opts.Offset)
	}

	return tx, nil
}

func column(s *schema.Schema, name string) (clause.Column, error) {
	f := s.LookUpField(name)
	if f == nil || f.DBName == "" {
		return clause.Column{}, fmt.Errorf("%w: unknown field %q on %s", apperrors.ErrInvalidInput, name, s.Name)
	}
	return clause.Column{Table: clause.CurrentTable, Name: f.DBName}, nil
}

func (f Field) build(s *schema.Schema) (clause.Expression, error) {
	col, err := column(s, f.Name)
	if err != nil {
		return nil, err
	}

	switch f.Op {
	case Eq:
		return clause.Eq{Column: col, Value: f.Value}, nil
	case Ne:
		return clause.Neq{Column: col, Value: f.Value}, nil
	case Lt:
		return clause.Lt{Column: col, Value: f.Value}, nil
	case Le:
		return clause.Lte{Column: col, Value: f.Value}, nil
	case Gt:
		return clause.Gt{Column: col, Value: f.Value}, nil
	case Ge:
		return clause.Gte{Column: col, Value: f.Value}, nil
	case Like, NotLike:
		if _, ok := f.Value.(string); !ok {
			return nil, fmt.Errorf("%w: %s on %q requires a string pattern", apperrors.ErrInvalidInput, f.Op, f.Name)
		}
		expr := clause.Like{Column: col, Value: f.Value}
		if f.Op == NotLike {
			return clause.Not(expr), nil
		}
		return expr, nil
	case In, NotIn:
		values, err := listValues(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s on %q: %v", apperrors.ErrInvalidInput, f.Op, f.Name, err)
		}
		expr := clause.IN{Column: col, Values: values}
		if f.Op == NotIn {
			return clause.Not(expr), nil
		}
		return expr, nil
	case Between, NotBetween:
		values, err := listValues(f.Value)
		if err != nil || len(values) != 2 {
			return nil, fmt.Errorf("%w: %s on %q requires exactly two values", apperrors.ErrInvalidInput, f.Op, f.Name)
		}
		sql := "? BETWEEN ? AND ?"
		if f.Op == NotBetween {
			sql = "? NOT BETWEEN ? AND ?"
		}
		return clause.Expr{SQL: sql, Vars: []any{col, values[0], values[1]}}, nil
	case Is, IsNot:
		lit, err := isLiteral(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s on %q: %v", apperrors.ErrInvalidInput, f.Op, f.Name, err)
		}
		sql := "? IS " + lit
		if f.Op == IsNot {
			sql = "? IS NOT " + lit
		}
		return clause.Expr{SQL: sql, Vars: []any{col}}, nil
	default:
		return nil, fmt.Errorf("%w: unknown operator %q", apperrors.ErrInvalidInput, f.Op)
	}
}

func (a andCondition) build(s *schema.Schema) (clause.Expression, error) {
	exprs, err := buildAll(s, a)
	if err != nil || len(exprs) == 0 {
		return nil, err
	}
	return clause.And(exprs...), nil
}

func (o orCondition) build(s *schema.Schema) (clause.Expression, error) {
	exprs, err := buildAll(s, o)
	if err != nil || len(exprs) == 0 {
		return nil, err
	}
	return clause.Or(exprs...), nil
}

func (n notCondition) build(s *schema.Schema) (clause.Expression, error) {
	if n.c == nil {
		return nil, fmt.Errorf("%w: empty not condition", apperrors.ErrInvalidInput)
	}
	expr, err := n.c.build(s)
	if err != nil || expr == nil {
		return nil, err
	}
	return clause.Not(expr), nil
}

func buildAll(s *schema.Schema, conds []Condition) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(conds))
	for _, c := range conds {
		if c == nil {
			continue
		}
		expr, err := c.build(s)
		if err != nil {
			return nil, err
		}
		if expr != nil {
			exprs = append(exprs, expr)
		}
	}
	return exprs, nil
}

// listValues flattens any slice or array (except []byte) into []any
func listValues(v any) ([]any, error) {
	if v == nil {
		return nil, fmt.Errorf("list value required")
	}
	if _, ok := v.([]byte); ok {
		return nil, fmt.Errorf("list value required, got []byte")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("list value required, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// isLiteral maps the IS operand to SQL; only NULL and booleans are valid
func isLiteral(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	default:
		return "", fmt.Errorf("IS accepts nil or bool, got %T", v)
	}
}
