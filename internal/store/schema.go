package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	banksTable                = "banks"
	assessmentsTable          = "assessments"
	answersTable              = "answers"
	knowledgeElementsTable    = "knowledge_elements"
	certificationResultsTable = "certification_results"
)

var (
	// BanksColumns holds the columns for the "banks" table.
	BanksColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString},
		{Name: "version", Type: field.TypeString},
		{Name: "document", Type: field.TypeJSON},
		{Name: "imported_at", Type: field.TypeTime},
	}
	BanksTable = &schema.Table{
		Name:       banksTable,
		Columns:    BanksColumns,
		PrimaryKey: []*schema.Column{BanksColumns[0]},
	}

	// AssessmentsColumns holds the columns for the "assessments" table.
	AssessmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "bank", Type: field.TypeString},
		{Name: "method", Type: field.TypeString},
		{Name: "target_profile", Type: field.TypeString, Default: ""},
		{Name: "skill_ids", Type: field.TypeJSON},
		{Name: "state", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	AssessmentsTable = &schema.Table{
		Name:       assessmentsTable,
		Columns:    AssessmentsColumns,
		PrimaryKey: []*schema.Column{AssessmentsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "assessment_user_id", Columns: []*schema.Column{AssessmentsColumns[1]}},
		},
	}

	// AnswersColumns holds the columns for the "answers" table.
	AnswersColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "challenge_id", Type: field.TypeString},
		{Name: "result", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	AnswersTable = &schema.Table{
		Name:       answersTable,
		Columns:    AnswersColumns,
		PrimaryKey: []*schema.Column{AnswersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "answers_assessments_answers",
				Columns:    []*schema.Column{AnswersColumns[1]},
				RefColumns: []*schema.Column{AssessmentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "answer_assessment_id_challenge_id",
				Unique:  true,
				Columns: []*schema.Column{AnswersColumns[1], AnswersColumns[2]},
			},
		},
	}

	// KnowledgeElementsColumns holds the columns for the "knowledge_elements" table.
	KnowledgeElementsColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "source", Type: field.TypeString},
		{Name: "challenge_id", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	KnowledgeElementsTable = &schema.Table{
		Name:       knowledgeElementsTable,
		Columns:    KnowledgeElementsColumns,
		PrimaryKey: []*schema.Column{KnowledgeElementsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "knowledge_elements_assessments_knowledge_elements",
				Columns:    []*schema.Column{KnowledgeElementsColumns[1]},
				RefColumns: []*schema.Column{AssessmentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "knowledgeelement_assessment_id", Columns: []*schema.Column{KnowledgeElementsColumns[1]}},
		},
	}

	// CertificationResultsColumns holds the columns for the "certification_results" table.
	CertificationResultsColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "total_score", Type: field.TypeInt},
		{Name: "percentage_correct_answers", Type: field.TypeFloat64},
		{Name: "status", Type: field.TypeString},
		{Name: "marks", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	CertificationResultsTable = &schema.Table{
		Name:       certificationResultsTable,
		Columns:    CertificationResultsColumns,
		PrimaryKey: []*schema.Column{CertificationResultsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "certification_results_assessments_results",
				Columns:    []*schema.Column{CertificationResultsColumns[1]},
				RefColumns: []*schema.Column{AssessmentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		BanksTable,
		AssessmentsTable,
		AnswersTable,
		KnowledgeElementsTable,
		CertificationResultsTable,
	}
)

func init() {
	AnswersTable.ForeignKeys[0].RefTable = AssessmentsTable
	KnowledgeElementsTable.ForeignKeys[0].RefTable = AssessmentsTable
	CertificationResultsTable.ForeignKeys[0].RefTable = AssessmentsTable
}
