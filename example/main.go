package main

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/theflywheel/symtable"
)

type symbol struct {
	kind string
	line int
}

func main() {
	log.SetLevel(log.DebugLevel)

	st := symtable.New[*symbol]()
	defer st.Free()

	fmt.Println("Symbol table created")

	// Insert enough symbols to grow the table once
	for i := 0; i < 600; i++ {
		name := fmt.Sprintf("var%d", i)
		if !st.Put(name, &symbol{kind: "var", line: i + 1}) {
			log.Fatalf("Failed to insert %s", name)
		}
	}
	fmt.Printf("Inserted %d symbols into %d buckets\n", st.Len(), st.BucketCount())

	// Lookups, present and absent
	for _, name := range []string{"var0", "var42", "var1000"} {
		if sym, ok := st.Get(name); ok {
			fmt.Printf("%s => %s declared on line %d\n", name, sym.kind, sym.line)
		} else {
			fmt.Printf("%s not found\n", name)
		}
	}

	// Duplicates are rejected
	err := st.Insert("var0", &symbol{kind: "func"})
	if errors.Is(err, symtable.ErrDuplicateKey) {
		fmt.Printf("Duplicate rejected: %v\n", err)
	}

	// Replace then remove
	old, _ := st.Replace("var0", &symbol{kind: "const", line: 1})
	fmt.Printf("Replaced var0, previously a %s\n", old.kind)

	removed, _ := st.Remove("var0")
	fmt.Printf("Removed var0 (%s), %d symbols left\n", removed.kind, st.Len())

	consts := 0
	st.Map(func(_ string, sym *symbol) {
		if sym.kind == "const" {
			consts++
		}
	})
	fmt.Printf("Constants remaining: %d\n", consts)

	fmt.Println("Example completed successfully")
}
