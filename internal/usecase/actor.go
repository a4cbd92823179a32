package usecase

import "context"

type actorKey struct{}

// WithActor tags ctx with the email of whoever triggered the writes, for the
// audit stamps of writes that have no explicit actor argument.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) string {
	s, _ := ctx.Value(actorKey{}).(string)
	return s
}
