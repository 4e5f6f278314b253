package apiclient

import "strings"

type cannedReply struct {
	keywords []string
	text     string
}

// Checked in order; the first topic with a matching keyword answers.
var cannedReplies = []cannedReply{
	{
		keywords: []string{"grade", "score", "gpa", "exam", "成绩", "考试"},
		text: "Looking at your recent results, your core courses are stable and the strongest marks come from coursework rather than exams.\n\n" +
			"To lift exam scores, review each chapter within a week of the lecture and work through past papers under time limits.\n\n" +
			"If one course keeps pulling the average down, book a consultation with its teacher early in the term.",
	},
	{
		keywords: []string{"job", "career", "intern", "employment", "就业", "实习", "工作"},
		text: "Your profile shows project experience that employers in your field look for, so lead with it on your resume.\n\n" +
			"Check the talent market page for positions that match your major and apply to a few internships this term.\n\n" +
			"A short meeting with a career counselor can help you turn your achievements into concrete application material.",
	},
	{
		keywords: []string{"stress", "anxiety", "pressure", "sleep", "压力", "焦虑", "心理"},
		text: "Feeling under pressure during a busy term is common, and it helps to say it out loud.\n\n" +
			"Keep a regular sleep schedule, split large tasks into small daily steps, and leave time for exercise.\n\n" +
			"The counseling center offers confidential sessions; you can book one from the consultation page.",
	},
	{
		keywords: []string{"course", "class", "schedule", "选课", "课程"},
		text: "Your current schedule is balanced between required and elective courses.\n\n" +
			"Before the next selection round, compare the syllabus of each elective with the direction you want to specialise in.\n\n" +
			"Courses with project work tend to add the most to your achievement record.",
	},
	{
		keywords: []string{"achievement", "award", "honor", "competition", "荣誉", "竞赛", "成果"},
		text: "You already have achievements on record; keep each entry complete with dates and supporting files.\n\n" +
			"Competitions related to your major are a good next step and count towards scholarship evaluation.\n\n" +
			"Ask your advisor which events the department recommends this year.",
	},
}

const defaultCannedReply = "Thanks for your question. Based on your profile, the best next step is to keep your records up to date and review your progress each month.\n\n" +
	"You can ask about grades, courses, career planning, achievements or wellbeing for more specific suggestions."

// MockReply produces a canned answer from keywords in question. It never
// touches the network and is used for demos and offline previews.
func MockReply(question string) string {
	q := strings.ToLower(question)
	for _, reply := range cannedReplies {
		for _, kw := range reply.keywords {
			if strings.Contains(q, kw) {
				return reply.text
			}
		}
	}
	return defaultCannedReply
}
