package employee

// Employee is the engine-facing subset of a staff record. Only active
// employees are eligible for a payroll run.
type Employee struct {
	ID               int64
	FirstName        string
	LastName         string
	JobTitleID       int64
	EmploymentTypeID int64
	Active           bool

	// Display fields joined from reference data.
	JobTitle       string
	DepartmentName string
}

// FullName joins the name parts for payslip headers and listings.
func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Department is an organisational unit used by the summary report breakdown.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// JobTitle links an employee to a department and a rule scope.
type JobTitle struct {
	ID           int64  `json:"id"`
	DepartmentID int64  `json:"departmentId"`
	Title        string `json:"title"`
	Level        string `json:"level"`
}

// EmploymentType is a rule scope tier (e.g. Full-Time, Contract).
type EmploymentType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
