package parse

import (
	"strings"
	"testing"
)

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestStringAsPrimitives(t *testing.T) {
	if got, err := StringAs[string]("hello"); err != nil || got != "hello" {
		t.Errorf("string: got %q, err %v", got, err)
	}
	if got, err := StringAs[int]("42"); err != nil || got != 42 {
		t.Errorf("int: got %d, err %v", got, err)
	}
	if got, err := StringAs[bool]("true"); err != nil || !got {
		t.Errorf("bool: got %v, err %v", got, err)
	}
	if got, err := StringAs[float64]("3.14"); err != nil || got != 3.14 {
		t.Errorf("float: got %v, err %v", got, err)
	}
	if got, err := StringAs[uint]("7"); err != nil || got != 7 {
		t.Errorf("uint: got %v, err %v", got, err)
	}
}

func TestStringAsPrimitiveErrors(t *testing.T) {
	if _, err := StringAs[int]("not a number"); err == nil {
		t.Error("expected error for invalid int")
	}
	if _, err := StringAs[bool]("maybe"); err == nil {
		t.Error("expected error for invalid bool")
	}
}

func TestStringAsStruct(t *testing.T) {
	got, err := StringAs[person](`{"name":"John","age":30}`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "John" || got.Age != 30 {
		t.Errorf("got %+v", got)
	}
}

func TestStringAsRepairsMalformedJSON(t *testing.T) {
	// Single quotes and unquoted keys, the classic LLM output defects.
	got, err := StringAs[person](`{name: 'John', age: 30,}`)
	if err != nil {
		t.Fatalf("expected repair to succeed, got %v", err)
	}
	if got.Name != "John" || got.Age != 30 {
		t.Errorf("got %+v", got)
	}
}

func TestStringAsSlice(t *testing.T) {
	got, err := StringAs[[]int](`[1,2,3]`)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2] != 3 {
		t.Errorf("got %v", got)
	}
}

func TestStringAsUnrepairable(t *testing.T) {
	_, err := StringAs[person](`{"name": "John", "age": "thirty"}`)
	if err == nil {
		t.Fatal("expected error for type mismatch")
	}
	if !strings.Contains(err.Error(), "failed to unmarshal") {
		t.Errorf("unexpected error: %v", err)
	}
}
