package membership_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/audience/cache"
	"github.com/jonwraymond/audience/membership"
	"github.com/jonwraymond/audience/record"
)

func ExampleResolver_Memberships() {
	store := record.NewMemoryStore()
	store.Put(membership.Kind, &membership.Membership{
		ID: "m1", UserID: "alice", GroupType: "node", GroupID: "g1",
		State: membership.StateActive, Type: membership.TypeDefault,
	})

	resolver, err := membership.NewResolver(store,
		membership.WithCache(cache.NewMemoryStore()),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	memberships, err := resolver.Memberships(context.Background(), "alice", nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, m := range memberships {
		fmt.Printf("%s is %s in %s/%s\n", m.UserID, m.State, m.GroupType, m.GroupID)
	}
	// Output: alice is active in node/g1
}

func ExampleResolver_IsMember() {
	store := record.NewMemoryStore()
	store.Put(membership.Kind, &membership.Membership{
		ID: "m1", UserID: "alice", GroupType: "node", GroupID: "g1",
		State: membership.StateActive, Type: membership.TypeDefault,
	})
	store.Put(membership.Kind, &membership.Membership{
		ID: "m2", UserID: "bob", GroupType: "node", GroupID: "g1",
		State: membership.StatePending, Type: membership.TypeDefault,
	})

	resolver, _ := membership.NewResolver(store)
	ctx := context.Background()
	group := membership.Group{Type: "node", ID: "g1"}

	aliceActive, _ := resolver.IsMember(ctx, group, "alice")
	bobActive, _ := resolver.IsMember(ctx, group, "bob")
	bobPending, _ := resolver.IsMemberPending(ctx, group, "bob")

	fmt.Println("alice active:", aliceActive)
	fmt.Println("bob active:", bobActive)
	fmt.Println("bob pending:", bobPending)
	// Output:
	// alice active: true
	// bob active: false
	// bob pending: true
}

func ExampleCreate() {
	group := membership.Group{Type: "node", Bundle: "group", ID: "g1"}
	m := membership.Create(group, "alice", "")

	fmt.Println("state:", m.State)
	fmt.Println("type:", m.Type)
	// Output:
	// state: active
	// type: default
}
