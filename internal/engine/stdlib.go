package engine

// Builtins returns the operator functions every environment needs,
// plus negation of any boolean through "<value>.not()".
func Builtins() Lib {
	return Lib{
		{Key: "op.equal", Value: Func2(func(a, b any) (any, error) {
			return Equal(a, b), nil
		})},
		{Key: "op.more", Value: Func2(func(a, b any) (any, error) {
			c, err := Compare("more", a, b)
			return c > 0, err
		})},
		{Key: "op.less", Value: Func2(func(a, b any) (any, error) {
			c, err := Compare("less", a, b)
			return c < 0, err
		})},
		{Key: "op.and", Value: logical("and", func(x, y bool) bool { return x && y })},
		{Key: "op.or", Value: logical("or", func(x, y bool) bool { return x || y })},
		{Key: "*.not", Value: Func1(func(v any) (any, error) {
			b, err := Bool("not", v)
			return !b, err
		})},
	}
}

func logical(op string, combine func(x, y bool) bool) Func2 {
	return func(a, b any) (any, error) {
		x, err := Bool(op, a)
		if err != nil {
			return nil, err
		}
		y, err := Bool(op, b)
		if err != nil {
			return nil, err
		}
		return combine(x, y), nil
	}
}
