// Command corrupt_csv damages a sample of cells in a batch file so the
// verify command has something to reject.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/syntheon/batchforge/pkg/core"
	"github.com/syntheon/batchforge/pkg/readers"
	"github.com/syntheon/batchforge/pkg/writers"
)

const (
	defaultRate = 0.05
	defaultSeed = 42
)

func main() {
	input := flag.String("input", "", "Batch file to corrupt")
	output := flag.String("output", "", "Destination for the corrupted copy")
	rate := flag.Float64("rate", defaultRate, "Fraction of cells to corrupt")
	seed := flag.Int64("seed", defaultSeed, "Random seed")
	column := flag.String("column", "", "Restrict corruption to one column")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		log.Fatal("both -input and -output are required")
	}
	if *rate <= 0 || *rate > 1 {
		log.Fatalf("rate must be in (0, 1], got %v", *rate)
	}

	if err := run(*input, *output, *column, *rate, *seed); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(input, output, column string, rate float64, seed int64) error {
	ctx := context.Background()

	reader, err := readers.NewCSVReader(core.ReaderConfig{Path: input, HasHeader: true})
	if err != nil {
		return err
	}
	defer reader.Close()

	record, err := reader.Load(ctx)
	if err != nil {
		return err
	}
	defer record.Release()

	rng := rand.New(rand.NewSource(seed))
	corrupted, count := corrupt(record, column, rate, rng)
	defer corrupted.Release()

	writer, err := writers.NewCSVWriter(core.WriterConfig{Path: output, IncludeHeader: true})
	if err != nil {
		return err
	}
	if err := writer.Write(ctx, corrupted); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	fmt.Printf("Corrupted %d cells of %s into %s\n", count, input, output)
	return nil
}

// corrupt rebuilds the table with a sample of cells damaged.
func corrupt(record arrow.Record, column string, rate float64, rng *rand.Rand) (arrow.Record, int) {
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), record.Schema())
	defer builder.Release()

	count := 0
	for c := 0; c < int(record.NumCols()); c++ {
		name := record.ColumnName(c)
		col := record.Column(c).(*array.String)
		sb := builder.Field(c).(*array.StringBuilder)

		for r := 0; r < col.Len(); r++ {
			value := col.Value(r)
			if (column == "" || column == name) && rng.Float64() < rate {
				value = damage(value, rng)
				count++
			}
			sb.Append(value)
		}
	}

	return builder.NewRecord(), count
}

// damage returns a value that no longer matches its original form.
func damage(value string, rng *rand.Rand) string {
	switch rng.Intn(3) {
	case 0:
		return ""
	case 1:
		return "corrupted"
	default:
		if value == "" {
			return "corrupted"
		}
		b := []byte(value)
		b[0] ^= 0x01
		return string(b)
	}
}
