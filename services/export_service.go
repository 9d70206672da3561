package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"compliance-assessment-api/models"

	"gorm.io/gorm"
)

// ErrNotCompleted rejects export requests for assessments that have not
// reached the terminal stage.
var ErrNotCompleted = errors.New("assessment is not completed")

// ExportRow is one question of the export with its final-stage answer.
type ExportRow struct {
	QuestionNumber string  `json:"question_number"`
	QuestionText   string  `json:"question_text"`
	Rating         *int    `json:"rating,omitempty"`
	Rationale      *string `json:"rationale,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// TopicSection groups export rows by topic. Average is nil when no question
// of the topic carries a rating; such topics are excluded from the grand
// total's denominator as well.
type TopicSection struct {
	TopicName string      `json:"topic_name"`
	Rows      []ExportRow `json:"rows"`
	Average   *float64    `json:"average,omitempty"`
}

type AssessmentExport struct {
	Assessment   models.Assessment `json:"assessment"`
	SiteName     string            `json:"site_name"`
	Sections     []TopicSection    `json:"sections"`
	GrandAverage *float64          `json:"grand_average,omitempty"`
}

type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// BuildExport assembles the spreadsheet-style read model of a completed
// assessment: the full question set with final-stage answers, grouped by
// topic, with per-topic and grand-total rating averages.
func (s *ExportService) BuildExport(assessmentID int) (*AssessmentExport, error) {
	var assessment models.Assessment
	if err := s.db.Preload("Site").Preload("Engagement").
		Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		First(&assessment).Error; err != nil {
		return nil, err
	}

	wf, err := WorkflowByName(assessment.Workflow)
	if err != nil {
		return nil, err
	}
	if !wf.Terminal(assessment.Status) {
		return nil, ErrNotCompleted
	}

	var questions []models.AssessmentQuestion
	if err := s.db.Preload("Question").Preload("Question.Topic").
		Where("assessment_id = ? AND delete_at IS NULL", assessmentID).
		Order("assessment_question_id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	questionIDs := make([]int, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.AssessmentQuestionID)
	}

	// Ratings come from the last stage in which answers were authored.
	finalStage := wf.FinalAuthoringStage()
	answersByQuestion := make(map[int]*models.Answer)
	if len(questionIDs) > 0 {
		var answers []models.Answer
		if err := s.db.Where("assessment_question_id IN ? AND status = ?", questionIDs, finalStage).
			Order("answer_id ASC").
			Find(&answers).Error; err != nil {
			return nil, err
		}
		for i := range answers {
			a := &answers[i]
			if _, ok := answersByQuestion[a.AssessmentQuestionID]; !ok {
				answersByQuestion[a.AssessmentQuestionID] = a
			}
		}
	}

	type topicAgg struct {
		name  string
		order int
		rows  []ExportRow
		sum   int
		rated int
	}
	topics := make(map[int]*topicAgg)
	topicIDs := make([]int, 0)

	for _, q := range questions {
		topic := q.Question.Topic
		agg, ok := topics[topic.TopicID]
		if !ok {
			agg = &topicAgg{name: topic.TopicName, order: topic.TopicOrder}
			topics[topic.TopicID] = agg
			topicIDs = append(topicIDs, topic.TopicID)
		}

		row := ExportRow{
			QuestionNumber: q.Question.QuestionNumber,
			QuestionText:   q.Question.QuestionText,
		}
		if a, ok := answersByQuestion[q.AssessmentQuestionID]; ok {
			row.Rating = a.Rating
			row.Rationale = a.Rationale
			row.Notes = a.Notes
			if a.HasRating() {
				agg.sum += *a.Rating
				agg.rated++
			}
		}
		agg.rows = append(agg.rows, row)
	}

	sort.Slice(topicIDs, func(i, j int) bool {
		a, b := topics[topicIDs[i]], topics[topicIDs[j]]
		if a.order != b.order {
			return a.order < b.order
		}
		return a.name < b.name
	})

	export := &AssessmentExport{
		Assessment: assessment,
		SiteName:   assessment.Site.SiteName,
	}

	grandSum, grandRated := 0, 0
	for _, id := range topicIDs {
		agg := topics[id]
		section := TopicSection{TopicName: agg.name, Rows: agg.rows}
		if agg.rated > 0 {
			avg := float64(agg.sum) / float64(agg.rated)
			section.Average = &avg
			grandSum += agg.sum
			grandRated += agg.rated
		}
		export.Sections = append(export.Sections, section)
	}
	if grandRated > 0 {
		avg := float64(grandSum) / float64(grandRated)
		export.GrandAverage = &avg
	}

	return export, nil
}

// WriteCSV streams the export as a spreadsheet-style CSV document.
func (s *ExportService) WriteCSV(w io.Writer, export *AssessmentExport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Site", export.SiteName}); err != nil {
		return err
	}
	if err := cw.Write([]string{"Topic", "Question", "Text", "Rating", "Rationale", "Notes"}); err != nil {
		return err
	}

	for _, section := range export.Sections {
		for _, row := range section.Rows {
			record := []string{
				section.TopicName,
				row.QuestionNumber,
				row.QuestionText,
				formatRating(row.Rating),
				strOrEmpty(row.Rationale),
				strOrEmpty(row.Notes),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		if section.Average != nil {
			avg := fmt.Sprintf("%.2f", *section.Average)
			if err := cw.Write([]string{section.TopicName, "", "Topic average", avg, "", ""}); err != nil {
				return err
			}
		}
	}

	if export.GrandAverage != nil {
		avg := fmt.Sprintf("%.2f", *export.GrandAverage)
		if err := cw.Write([]string{"", "", "Grand total", avg, "", ""}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatRating(rating *int) string {
	if rating == nil {
		return ""
	}
	return strconv.Itoa(*rating)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
