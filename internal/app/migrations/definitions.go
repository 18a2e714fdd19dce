package migrations

import (
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/schema"
)

func withTimestamps(cols ...schema.Column) []schema.Column {
	return append(cols, schema.Timestamps()...)
}

func foreign(table string, action schema.DeleteAction) *schema.ForeignKey {
	return &schema.ForeignKey{Table: table, OnDelete: action}
}

// UsersTable is the account table students and documents point at
func UsersTable() schema.Table {
	return schema.Table{
		Name: models.TableUsers,
		Columns: withTimestamps(
			schema.Column{Name: "id", Type: schema.TypeID},
			schema.Column{Name: "name", Type: schema.TypeString},
			schema.Column{Name: "email", Type: schema.TypeString, Unique: true},
			schema.Column{Name: "password", Type: schema.TypeString},
		),
	}
}

// DepartmentsTable holds the departments students belong to
func DepartmentsTable() schema.Table {
	return schema.Table{
		Name: models.TableDepartments,
		Columns: withTimestamps(
			schema.Column{Name: "id", Type: schema.TypeID},
			schema.Column{Name: "name", Type: schema.TypeString},
			schema.Column{Name: "code", Type: schema.TypeString, Length: 32, Unique: true},
		),
	}
}

// StudentsTable is one row per enrolled user
func StudentsTable() schema.Table {
	return schema.Table{
		Name: models.TableStudents,
		Columns: withTimestamps(
			schema.Column{Name: "id", Type: schema.TypeID},
			schema.Column{Name: "user_id", Type: schema.TypeForeignID, Unique: true, References: foreign(models.TableUsers, schema.Cascade)},
			schema.Column{Name: "department_id", Type: schema.TypeForeignID, Nullable: true, References: foreign(models.TableDepartments, schema.SetNull)},
			schema.Column{Name: "enrollment_number", Type: schema.TypeString, Unique: true},
			schema.Column{Name: "admission_date", Type: schema.TypeDate, Nullable: true},
		),
	}
}

// CoursesTable holds the courses students apply to
func CoursesTable() schema.Table {
	return schema.Table{
		Name: models.TableCourses,
		Columns: withTimestamps(
			schema.Column{Name: "id", Type: schema.TypeID},
			schema.Column{Name: "department_id", Type: schema.TypeForeignID, Nullable: true, References: foreign(models.TableDepartments, schema.SetNull)},
			schema.Column{Name: "code", Type: schema.TypeString, Length: 32, Unique: true},
			schema.Column{Name: "title", Type: schema.TypeString},
		),
	}
}

// ApplicationsTable records a student's application to a course
func ApplicationsTable() schema.Table {
	statuses := models.ApplicationStatuses()
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	return schema.Table{
		Name: models.TableApplications,
		Columns: withTimestamps(
			schema.Column{Name: "id", Type: schema.TypeID},
			schema.Column{Name: "student_id", Type: schema.TypeForeignID, References: foreign(models.TableStudents, schema.Cascade)},
			schema.Column{Name: "course_id", Type: schema.TypeForeignID, References: foreign(models.TableCourses, schema.Cascade)},
			schema.Column{Name: "application_status", Type: schema.TypeEnum, Values: values, Default: schema.Default(string(models.ApplicationPending))},
			schema.Column{Name: "submitted_at", Type: schema.TypeTimestamp, Nullable: true},
		),
	}
}

// DocumentsTable holds files uploaded for a student
func DocumentsTable() schema.Table {
	return schema.Table{
		Name: models.TableDocuments,
		Columns: withTimestamps(
			schema.Column{Name: "id", Type: schema.TypeID},
			schema.Column{Name: "student_id", Type: schema.TypeForeignID, References: foreign(models.TableStudents, schema.Cascade)},
			schema.Column{Name: "user_id", Type: schema.TypeForeignID, References: foreign(models.TableUsers, schema.Cascade)},
			schema.Column{Name: "document_type", Type: schema.TypeString, Nullable: true},
			schema.Column{Name: "file_path", Type: schema.TypeString},
			schema.Column{Name: "uploaded_at", Type: schema.TypeTimestamp, Nullable: true},
		),
	}
}

// DefaultUnits returns the enrollment schema in declaration order
func DefaultUnits() []Unit {
	return []Unit{
		CreateTable("0001_01_01_000000", UsersTable()),
		CreateTable("0001_01_01_000005", DepartmentsTable()),
		CreateTable("0001_01_01_000006", StudentsTable()),
		CreateTable("0001_01_01_000007", CoursesTable()),
		CreateTable("0001_01_01_000008", ApplicationsTable()),
		CreateTable("0001_01_01_000009", DocumentsTable()),
	}
}

// Tables returns the table definitions carried by units, in unit order
func Tables(units []Unit) []schema.Table {
	var tables []schema.Table
	for _, u := range units {
		if tu, ok := u.(*TableUnit); ok {
			tables = append(tables, tu.Table())
		}
	}
	return tables
}
