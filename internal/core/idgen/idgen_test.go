package idgen

import "testing"

func TestGenerate(t *testing.T) {
	id := Generate()
	if len(id) != 32 {
		t.Fatalf("expected 32 chars, got %d (%s)", len(id), id)
	}
	if !IsValid(id) {
		t.Fatalf("generated id failed validation: %s", id)
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := Generate()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestGenerateUUID(t *testing.T) {
	id := GenerateUUID()
	if len(id) != 32 {
		t.Fatalf("expected 32 chars, got %d (%s)", len(id), id)
	}
	if !IsValid(id) {
		t.Fatalf("uuid id failed validation: %s", id)
	}
}

func TestIsValid(t *testing.T) {
	if IsValid("") {
		t.Error("empty id should be invalid")
	}
	if IsValid("abc") {
		t.Error("short id should be invalid")
	}
	if IsValid("ZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ") {
		t.Error("non-hex id should be invalid")
	}
	// 大写十六进制也算非法，主键固定小写
	if IsValid("ABCDEF0123456789ABCDEF0123456789") {
		t.Error("uppercase hex should be invalid")
	}
	if !IsValid("abcdef0123456789abcdef0123456789") {
		t.Error("lowercase 32-hex should be valid")
	}
}

func BenchmarkGenerate(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Generate()
	}
}
