package routes

import "net/http"

const (
	Home            = "home"
	About           = "about"
	StudentLogin    = "studentLogin"
	StudentRegister = "studentRegister"
	Student         = "student"

	StudentDashboard    = "studentDashboard"
	StudentStastic      = "studentStastic"
	StudentDataScreen   = "studentDataScreen"
	StudentHomework     = "studentHomework"
	StudentCourses      = "studentCourses"
	CourseSchedule      = "courseSchedule"
	StudentAchievement  = "studentAchievement"
	AchievementCollect  = "achievementCollect"
	AchievementDetail   = "achievementDetail"
	AchievementSettings = "achievementSettings"
	StudentTeachers     = "studentTeachers"
	TeacherInfo         = "teacherInfo"
	TeacherDetail       = "teacherDetail"
	TeacherFavorites    = "teacherFavorites"
	StudentConsult      = "studentConsult"
	StudentResume       = "studentResume"
	StudentFeedback     = "studentFeedback"
	StudentSurvey       = "studentSurvey"
	ConsultantDetail    = "consultantDetail"
	BookConsultation    = "bookConsultation"
	JobRecommendation   = "jobRecommendation"
	APITest             = "apiTest"
	StudentActivities   = "studentActivities"
	TalentMarket        = "talentMarket"
)

// ViewFunc builds the handler for a named route. It is called lazily, the
// first time the route is visited.
type ViewFunc func(name string) http.Handler

// Portal returns the portal's route tree. Everything under /student requires
// a token. The layout and each child declare the flag, so the tree is guarded
// the same way under either Policy.
func Portal(view ViewFunc) *Table {
	page := func(path, name string) *Node {
		return &Node{Path: path, Name: name, View: LazyView(func() http.Handler { return view(name) })}
	}
	guarded := func(path, name string) *Node {
		n := page(path, name)
		n.Meta = Meta{RequiresAuth: Bool(true)}
		return n
	}

	student := &Node{
		Path:     "student",
		Name:     Student,
		Redirect: "/student/dashboard",
		Meta:     Meta{RequiresAuth: Bool(true)},
		Children: []*Node{
			guarded("dashboard", StudentDashboard),
			guarded("stastic", StudentStastic),
			guarded("data-screen", StudentDataScreen),
			guarded("homework", StudentHomework),
			guarded("courses", StudentCourses),
			guarded("course-schedule", CourseSchedule),
			guarded("achievement", StudentAchievement),
			guarded("achievement-collect", AchievementCollect),
			guarded("achievement-detail/:id", AchievementDetail),
			guarded("achievement-settings", AchievementSettings),
			guarded("teachers", StudentTeachers),
			guarded("teacher-info", TeacherInfo),
			guarded("teacher-detail/:id", TeacherDetail),
			guarded("teacher-favorites", TeacherFavorites),
			guarded("consult", StudentConsult),
			guarded("resume", StudentResume),
			guarded("feedback", StudentFeedback),
			guarded("survey", StudentSurvey),
			guarded("consultant-detail/:id", ConsultantDetail),
			guarded("book-consultation/:id", BookConsultation),
			guarded("job-recommendation", JobRecommendation),
			guarded("api-test", APITest),
			guarded("activities", StudentActivities),
			guarded("talent-market", TalentMarket),
		},
	}

	return NewTable(
		page("/", Home),
		page("about", About),
		page("student/login", StudentLogin),
		page("student/register", StudentRegister),
		student,
	)
}
