package message

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"
)

func TestInsertRequestRoundTrip(t *testing.T) {
	key := []byte("some-ssk-routing-key-32-bytes!!!")
	m := NewInsertRequestMsg(0x1122334455667788, 12, key)
	data, err := Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	m2 := new(InsertRequestMsg)
	m2.Key = make([]byte, len(key))
	if err := Unmarshal(m2, data); err != nil {
		t.Fatal(err)
	}
	if m2.UID != m.UID || m2.HTL != m.HTL || !bytes.Equal(m2.Key, key) {
		t.Fatalf("round trip mismatch: %+v vs %+v", m, m2)
	}
}

type NestedStruct struct {
	A int64 `order:"big"`
	B int32
}

func (n *NestedStruct) String() string {
	return fmt.Sprintf("%v", *n)
}

type SubStruct struct {
	G int32
}

func (s *SubStruct) String() string {
	return fmt.Sprintf("%v", *s)
}

type MainStruct struct {
	C uint64 `order:"big"`
	D string
	F *SubStruct
	E []*NestedStruct
}

func TestNested(t *testing.T) {
	r := new(MainStruct)
	r.C = 19031962
	r.D = "Just a test"
	r.E = make([]*NestedStruct, 3)
	r.F = new(SubStruct)
	r.F.G = 0x23
	for i := 0; i < 3; i++ {
		n := new(NestedStruct)
		n.A = int64(255 - i)
		n.B = int32(815 * (i + 1))
		r.E[i] = n
	}

	data, err := Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Printf("<<< %v\n", r)
	fmt.Printf("    [%s]\n", hex.EncodeToString(data))

	s := new(MainStruct)
	s.F = new(SubStruct)
	s.E = make([]*NestedStruct, 3)
	for i := 0; i < 3; i++ {
		s.E[i] = new(NestedStruct)
	}
	if err = Unmarshal(s, data); err != nil {
		t.Fatal(err)
	}
	fmt.Printf(">>> %v\n", s)
}

func TestCollisionDataRoundTrip(t *testing.T) {
	data := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	msg := NewCollisionDataMsg(42, data)
	raw, err := Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	msg2 := new(CollisionDataMsg)
	msg2.Data = make([]byte, len(data))
	if err := Unmarshal(msg2, raw); err != nil {
		t.Fatal(err)
	}
	if msg2.UID != msg.UID || !bytes.Equal(msg2.Data, data) {
		t.Fatalf("round trip mismatch: %+v vs %+v", msg, msg2)
	}
}
