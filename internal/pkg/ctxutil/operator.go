package ctxutil

import "context"

type operatorDataKey struct{}

// OperatorData identifies the authenticated moderation operator on a request.
type OperatorData struct {
	Email string
	Role  string
}

func WithOperatorData(ctx context.Context, od *OperatorData) context.Context {
	return context.WithValue(ctx, operatorDataKey{}, od)
}

func GetOperatorData(ctx context.Context) *OperatorData {
	val := ctx.Value(operatorDataKey{})
	if od, ok := val.(*OperatorData); ok {
		return od
	}
	return nil
}
