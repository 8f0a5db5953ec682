package main

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/syntheon/batchforge/pkg/core"
	"github.com/syntheon/batchforge/pkg/readers"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: inspect_csv <file>")
		os.Exit(1)
	}

	filePath := os.Args[1]
	reader, err := readers.NewCSVReader(core.ReaderConfig{
		Path:      filePath,
		HasHeader: true,
	})
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	record, err := reader.Load(context.Background())
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}
	defer record.Release()

	// Print file metadata
	fmt.Printf("File: %s\n", filePath)
	fmt.Printf("Number of rows: %d\n", record.NumRows())
	fmt.Printf("Number of columns: %d\n", record.NumCols())

	// Print schema
	fmt.Println("\nSchema:")
	for i, field := range record.Schema().Fields() {
		fmt.Printf("  Field %d: %s (%s)\n", i, field.Name, field.Type)
	}

	// Print first 5 rows
	fmt.Println("\nFirst 5 rows:")
	printRows(record, 5)
}

func printRows(record arrow.Record, maxRows int) {
	numRows := int(record.NumRows())
	if numRows > maxRows {
		numRows = maxRows
	}

	for i := 0; i < numRows; i++ {
		fmt.Printf("Row %d: [", i)
		for j, col := range record.Columns() {
			if j > 0 {
				fmt.Print(", ")
			}
			if col.IsNull(i) {
				fmt.Print("NULL")
			} else {
				fmt.Printf("%v", col.GetOneForMarshal(i))
			}
		}
		fmt.Println("]")
	}
}
