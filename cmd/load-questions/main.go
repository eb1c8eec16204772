package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mellon2025/sinjin/internal/config"
	"github.com/mellon2025/sinjin/internal/db"
)

type questionRecord struct {
	Category string
	Content  string
	Points   int
}

func main() {
	filePath := flag.String("file", "questions.csv", "path to questions csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(db.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	records, err := readQuestions(*filePath)
	if err != nil {
		log.Fatalf("failed to read questions: %v", err)
	}

	categories := make(map[string]int)
	inserted := 0
	for _, record := range records {
		categoryID, ok := categories[record.Category]
		if !ok {
			category := db.Category{Name: record.Category}
			if err := conn.FirstOrCreate(&category, db.Category{Name: record.Category}).Error; err != nil {
				log.Fatalf("failed to upsert category: %v", err)
			}
			categoryID = category.ID
			categories[record.Category] = categoryID
		}
		question := db.Question{
			Content:    record.Content,
			CategoryID: categoryID,
			Points:     record.Points,
		}
		if err := conn.FirstOrCreate(&question, db.Question{Content: record.Content, CategoryID: categoryID}).Error; err != nil {
			log.Fatalf("failed to upsert question: %v", err)
		}
		inserted++
	}

	log.Printf("loaded %d questions across %d categories", inserted, len(categories))
}

// readQuestions parses rows of category,question[,points]. Rows with a
// missing category or question are skipped.
func readQuestions(path string) ([]questionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var records []questionRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			continue
		}
		category := strings.TrimSpace(row[0])
		content := strings.TrimSpace(row[1])
		if category == "" || content == "" {
			continue
		}
		points := 10
		if len(row) > 2 {
			if value, err := strconv.Atoi(strings.TrimSpace(row[2])); err == nil && value > 0 {
				points = value
			}
		}
		records = append(records, questionRecord{Category: category, Content: content, Points: points})
	}
	return records, nil
}
