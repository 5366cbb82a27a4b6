package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"classhub/biz/infrastructure/realtime"
	"classhub/biz/infrastructure/repository/class"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubscribeJoinsMissingRoomsOnly(t *testing.T) {
	sid := primitive.NewObjectID()
	mapper := &fakeClassMapper{classes: map[string]*class.Class{
		"cs101-x7z": {Slug: "cs101-x7z", Owner: primitive.NewObjectID(), Students: []primitive.ObjectID{sid}},
		"ml201-a2b": {Slug: "ml201-a2b", Owner: primitive.NewObjectID(), Students: []primitive.ObjectID{sid}},
		"os301-c3d": {Slug: "os301-c3d", Owner: primitive.NewObjectID(), Students: []primitive.ObjectID{}},
	}}

	hub := realtime.NewHub()
	svc := &SubscribeService{ClassMapper: mapper, Hub: hub}

	conn := hub.Connect(sid.Hex())
	hub.Join(conn, "cs101-x7z")

	svc.Subscribe(context.Background(), conn)

	rooms := conn.Rooms()
	sort.Strings(rooms)
	want := []string{"cs101-x7z", "ml201-a2b"}
	if len(rooms) != len(want) {
		t.Fatalf("Rooms() = %v, want %v", rooms, want)
	}
	for i := range want {
		if rooms[i] != want[i] {
			t.Fatalf("Rooms() = %v, want %v", rooms, want)
		}
	}

	hub.Broadcast("ml201-a2b", "member:joined", nil)
	select {
	case e := <-conn.Events():
		if e.Room != "ml201-a2b" {
			t.Errorf("event room = %v, want ml201-a2b", e.Room)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered to joined room")
	}
}

func TestSubscribeDegradesOnStoreError(t *testing.T) {
	mapper := &fakeClassMapper{
		classes:       map[string]*class.Class{},
		findByStudent: fmt.Errorf("mongo down"),
	}

	hub := realtime.NewHub()
	svc := &SubscribeService{ClassMapper: mapper, Hub: hub}

	conn := hub.Connect(primitive.NewObjectID().Hex())
	svc.Subscribe(context.Background(), conn)

	if got := len(conn.Rooms()); got != 0 {
		t.Errorf("Rooms() = %d entries, want 0", got)
	}

	// 连接保持可用, 仍可手动加入
	hub.Join(conn, "cs101-x7z")
	if !conn.InRoom("cs101-x7z") {
		t.Error("conn unusable after degraded subscribe")
	}
}
