package services

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/polldesk/survey-server/models"
)

type AnswerStat struct {
	UUID       *uuid.UUID `json:"uuid"`
	Name       *string    `json:"name"`
	Count      int        `json:"count"`
	Percentage float64    `json:"percentage"`
}

type QuestionStat struct {
	UUID       uuid.UUID    `json:"uuid"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	TotalCount int          `json:"total_count"`
	Answers    []AnswerStat `json:"answers"`
}

type SurveyStat struct {
	UUID      uuid.UUID      `json:"uuid"`
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	Questions []QuestionStat `json:"questions"`
}

type statRow struct {
	QuestionID   uuid.UUID
	QuestionName string
	QuestionType string
	QuestionSeq  int
	OptionID     *uuid.UUID
	OptionName   *string
	OptionSeq    *int
	AnswerCount  int
}

// BuildSurveyStat aggregates per-option answer counts among completed
// respondents into an ordered survey -> questions -> answers tree.
// Percentages are against the per-question answer total, rounded to
// two decimals. Options nobody selected are injected with zero counts
// so every question reports its full option list, ordered by seq_id.
// Accumulators are keyed by uuid, never by display name: two questions
// sharing a name must not collapse into one bucket.
func BuildSurveyStat(db *gorm.DB, survey *models.Survey) (*SurveyStat, error) {
	var rows []statRow
	err := db.Model(&models.UserAnswer{}).
		Select("q.uuid AS question_id, q.name AS question_name, q.type AS question_type, q.seq_id AS question_seq, "+
			"o.uuid AS option_id, o.name AS option_name, o.seq_id AS option_seq, "+
			"COUNT(user_answers.uuid) AS answer_count").
		Joins("JOIN user_responses ur ON ur.uuid = user_answers.user_response_id").
		Joins("JOIN questions q ON q.uuid = user_answers.question_id").
		Joins("LEFT JOIN answer_options o ON o.uuid = user_answers.answer_option_id").
		Where("ur.survey_id = ? AND ur.status = ?", survey.ID, models.ResponseStatusCompleted).
		Group("q.uuid, q.name, q.type, q.seq_id, o.uuid, o.name, o.seq_id").
		Order("q.seq_id ASC, o.seq_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stat := &SurveyStat{
		UUID:      survey.ID,
		Name:      survey.Name,
		Status:    survey.Status,
		Questions: []QuestionStat{},
	}

	// Single insertion-ordered pass over the flat rows.
	questionIdx := map[uuid.UUID]int{}
	for _, row := range rows {
		idx, ok := questionIdx[row.QuestionID]
		if !ok {
			idx = len(stat.Questions)
			questionIdx[row.QuestionID] = idx
			stat.Questions = append(stat.Questions, QuestionStat{
				UUID:    row.QuestionID,
				Name:    row.QuestionName,
				Type:    row.QuestionType,
				Answers: []AnswerStat{},
			})
		}
		stat.Questions[idx].TotalCount += row.AnswerCount
		stat.Questions[idx].Answers = append(stat.Questions[idx].Answers, AnswerStat{
			UUID:  row.OptionID,
			Name:  row.OptionName,
			Count: row.AnswerCount,
		})
	}

	for qi := range stat.Questions {
		q := &stat.Questions[qi]
		for ai := range q.Answers {
			q.Answers[ai].Percentage = roundPercentage(q.Answers[ai].Count, q.TotalCount)
		}
	}

	if err := addZeroCountOptions(db, stat); err != nil {
		return nil, err
	}
	return stat, nil
}

// addZeroCountOptions unions in every answer option that received no
// selections, rebuilding each choice question's answer list in option
// seq_id order.
func addZeroCountOptions(db *gorm.DB, stat *SurveyStat) error {
	questionIDs := make([]uuid.UUID, 0, len(stat.Questions))
	for _, q := range stat.Questions {
		if q.Type != models.QuestionTypeText {
			questionIDs = append(questionIDs, q.UUID)
		}
	}
	if len(questionIDs) == 0 {
		return nil
	}

	var options []models.AnswerOption
	if err := db.Where("question_id IN ?", questionIDs).
		Order("seq_id ASC").
		Find(&options).Error; err != nil {
		return err
	}
	byQuestion := map[uuid.UUID][]models.AnswerOption{}
	for _, o := range options {
		byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], o)
	}

	for qi := range stat.Questions {
		q := &stat.Questions[qi]
		if q.Type == models.QuestionTypeText {
			continue
		}
		counted := map[uuid.UUID]AnswerStat{}
		for _, a := range q.Answers {
			if a.UUID != nil {
				counted[*a.UUID] = a
			}
		}
		merged := make([]AnswerStat, 0, len(byQuestion[q.UUID]))
		for _, o := range byQuestion[q.UUID] {
			if a, ok := counted[o.ID]; ok {
				merged = append(merged, a)
				continue
			}
			option := o
			merged = append(merged, AnswerStat{UUID: &option.ID, Name: &option.Name})
		}
		q.Answers = merged
	}
	return nil
}

func roundPercentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*100.0/float64(total)*100) / 100
}

type AnswerUserStat struct {
	UUID *uuid.UUID `json:"uuid"`
	Name *string    `json:"name"`
}

type QuestionUserStat struct {
	UUID    uuid.UUID        `json:"uuid"`
	Name    string           `json:"name"`
	Type    string           `json:"type"`
	Answers []AnswerUserStat `json:"answers"`
}

type UserStat struct {
	UUID        uint               `json:"uuid"`
	Name        string             `json:"name"`
	CompletedAt *time.Time         `json:"user_completed_at"`
	Questions   []QuestionUserStat `json:"questions"`
}

type SurveyUserStat struct {
	UUID   uuid.UUID  `json:"uuid"`
	Name   string     `json:"name"`
	Status string     `json:"status"`
	Users  []UserStat `json:"users"`
}

type userStatRow struct {
	UserID       uint
	FirstName    string
	LastName     string
	CompletedAt  *time.Time
	QuestionID   uuid.UUID
	QuestionName string
	QuestionType string
	TextAnswer   *string
	OptionID     *uuid.UUID
	OptionName   *string
}

// BuildSurveyUserStat groups completed answers by respondent. Anonymous
// sessions carry no user row and are excluded; an all-anonymous survey
// yields an empty user list, not an error. Text questions surface the
// literal text as the answer name.
func BuildSurveyUserStat(db *gorm.DB, survey *models.Survey) (*SurveyUserStat, error) {
	var rows []userStatRow
	err := db.Model(&models.UserAnswer{}).
		Select("ur.user_id AS user_id, u.first_name AS first_name, u.last_name AS last_name, "+
			"ur.completed_at AS completed_at, "+
			"q.uuid AS question_id, q.name AS question_name, q.type AS question_type, "+
			"user_answers.text_answer AS text_answer, o.uuid AS option_id, o.name AS option_name").
		Joins("JOIN user_responses ur ON ur.uuid = user_answers.user_response_id").
		Joins("JOIN users u ON u.id = ur.user_id").
		Joins("JOIN questions q ON q.uuid = user_answers.question_id").
		Joins("LEFT JOIN answer_options o ON o.uuid = user_answers.answer_option_id").
		Where("ur.survey_id = ? AND ur.status = ? AND ur.user_id IS NOT NULL",
			survey.ID, models.ResponseStatusCompleted).
		Order("ur.user_id ASC, q.seq_id ASC, o.seq_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stat := &SurveyUserStat{
		UUID:   survey.ID,
		Name:   survey.Name,
		Status: survey.Status,
		Users:  []UserStat{},
	}

	userIdx := map[uint]int{}
	for _, row := range rows {
		ui, ok := userIdx[row.UserID]
		if !ok {
			ui = len(stat.Users)
			userIdx[row.UserID] = ui
			name := row.FirstName
			if row.LastName != "" {
				name += " " + row.LastName
			}
			stat.Users = append(stat.Users, UserStat{
				UUID:        row.UserID,
				Name:        name,
				CompletedAt: row.CompletedAt,
				Questions:   []QuestionUserStat{},
			})
		}
		user := &stat.Users[ui]

		qi := -1
		for i := range user.Questions {
			if user.Questions[i].UUID == row.QuestionID {
				qi = i
				break
			}
		}
		if qi < 0 {
			qi = len(user.Questions)
			user.Questions = append(user.Questions, QuestionUserStat{
				UUID:    row.QuestionID,
				Name:    row.QuestionName,
				Type:    row.QuestionType,
				Answers: []AnswerUserStat{},
			})
		}

		var answer AnswerUserStat
		if row.QuestionType == models.QuestionTypeText {
			answer = AnswerUserStat{Name: row.TextAnswer}
		} else {
			answer = AnswerUserStat{UUID: row.OptionID, Name: row.OptionName}
		}
		user.Questions[qi].Answers = append(user.Questions[qi].Answers, answer)
	}

	return stat, nil
}
