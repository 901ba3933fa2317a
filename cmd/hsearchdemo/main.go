package main

import (
	"fmt"

	"github.com/gopherlibc/swisscore/hsearch"
)

func main() {
	tab, err := hsearch.HcreateR(64)
	if err != nil {
		panic(err)
	}

	words := []string{"alpha", "bravo", "charlie", "delta"}
	for i, w := range words {
		if _, err := hsearch.HsearchR(tab, hsearch.Entry{Key: w, Data: i}, hsearch.Enter); err != nil {
			panic(err)
		}
	}

	for _, w := range append(words, "echo") {
		got, err := hsearch.HsearchR(tab, hsearch.Entry{Key: w}, hsearch.Find)
		if err != nil {
			fmt.Println(w, "not found")
			continue
		}
		fmt.Println(w, "=>", got.Data)
	}

	fmt.Println("table size:", tab.Len())
}
