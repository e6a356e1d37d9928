// Command attendance_csv generates a sample attendance CSV accepted by the
// upload endpoint. Register numbers and subject codes are synthetic; load a
// matching roster first or expect per-row warnings in the response.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"
)

func main() {
	var (
		out        string
		students   int
		subjects   int
		days       int
		absentRate float64
		seed       int64
		badRows    int
	)

	flag.StringVar(&out, "out", "attendance.csv", "output file path")
	flag.IntVar(&students, "students", 10, "number of students")
	flag.IntVar(&subjects, "subjects", 3, "number of subjects")
	flag.IntVar(&days, "days", 5, "number of class days ending today")
	flag.Float64Var(&absentRate, "absent-rate", 0.15, "probability a row is Absent")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 uses current time)")
	flag.IntVar(&badRows, "bad-rows", 0, "number of rows with an unknown register number")
	flag.Parse()

	if students <= 0 || subjects <= 0 || days <= 0 {
		log.Fatal("students, subjects, and days must all be positive")
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	f, err := os.Create(out)
	if err != nil {
		log.Fatalf("failed to create %s: %v", out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"register_number", "subject_code", "date", "status"}); err != nil {
		log.Fatalf("failed to write header: %v", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	rows := 0
	for d := 0; d < days; d++ {
		date := today.AddDate(0, 0, -d).Format("2006-01-02")
		for s := 0; s < students; s++ {
			for su := 0; su < subjects; su++ {
				status := "Present"
				if rng.Float64() < absentRate {
					status = "Absent"
				}
				record := []string{
					fmt.Sprintf("21CS%03d", s+1),
					fmt.Sprintf("CS%d01", su+1),
					date,
					status,
				}
				if err := w.Write(record); err != nil {
					log.Fatalf("failed to write row: %v", err)
				}
				rows++
			}
		}
	}

	for i := 0; i < badRows; i++ {
		record := []string{fmt.Sprintf("99XX%03d", i+1), "CS101", today.Format("2006-01-02"), "Present"}
		if err := w.Write(record); err != nil {
			log.Fatalf("failed to write row: %v", err)
		}
		rows++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("failed to flush output: %v", err)
	}

	fmt.Printf("Wrote %d rows to %s (seed %d)\n", rows, out, seed)
}
