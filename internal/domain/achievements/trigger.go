package achievements

// TriggerType is the rule family governing how an achievement's progress is
// computed. Values outside the known set fall back to a generic increment so
// an administrator can introduce a new type before the engine codes for it.
type TriggerType string

const (
	TriggerFirstLogin            TriggerType = "first_login"
	TriggerOnboardingComplete    TriggerType = "onboarding_complete"
	TriggerLoginStreak           TriggerType = "login_streak"
	TriggerCompleteTrails        TriggerType = "complete_trails"
	TriggerCompleteTrailsPerfect TriggerType = "complete_trails_perfect"
	TriggerCompleteSpecificTrail TriggerType = "complete_specific_trail"
	TriggerReadArticlesCount     TriggerType = "read_articles_count"
	TriggerReadCategoryComplete  TriggerType = "read_category_complete"
	TriggerReadSpecificArticle   TriggerType = "read_specific_article"
	TriggerQuestionsAnswered     TriggerType = "questions_answered_count"
	TriggerQuestionAccuracyRate  TriggerType = "question_accuracy_rate"
	TriggerCompleteQuizCount     TriggerType = "complete_quiz_count"
	TriggerFirstCertificate      TriggerType = "first_certificate"
	TriggerCertificateHighScore  TriggerType = "certificate_high_score"
	TriggerBookmarkArticlesCount TriggerType = "bookmark_articles_count"
)

// TriggerConditions is the optional-field bag attached to a trigger. Only the
// fields relevant to the trigger type are populated.
type TriggerConditions struct {
	Count              int     `json:"count,omitempty"`
	ResourceID         string  `json:"resourceId,omitempty"`
	AccuracyPercentage float64 `json:"accuracyPercentage,omitempty"`
	TimeSeconds        int     `json:"timeSeconds,omitempty"`
	StreakDays         int     `json:"streakDays,omitempty"`
	MinimumQuestions   int     `json:"minimumQuestions,omitempty"`
	PerfectScore       bool    `json:"perfectScore,omitempty"`
	Sequential         bool    `json:"sequential,omitempty"`
}

type TriggerSpec struct {
	Type       TriggerType       `json:"type"`
	Conditions TriggerConditions `json:"conditions"`
}
