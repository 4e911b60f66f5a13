package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/teambuildf/oraville-backend/utils"
)

// ContentController serves static application content.
type ContentController struct{}

// NewContentController creates a new controller instance.
func NewContentController() *ContentController {
	return &ContentController{}
}

type faqItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faqData = []faqItem{
	{
		Question: "How do I earn Glow Points?",
		Answer:   "You can earn Glow Points by completing daily tasks like morning check-ins, face scans, reading wellness tips, and inviting friends. Each task has a specific point value.",
	},
	{
		Question: "What can I do with my Glow Points?",
		Answer:   "Glow Points accumulate in your wallet and can be converted to real-world rewards. More redemption options will be available soon!",
	},
	{
		Question: "How does the referral system work?",
		Answer:   "Share your unique referral code with friends. When they sign up using your code, you both earn bonus points! The more friends you refer, the more you earn.",
	},
	{
		Question: "What is the streak system?",
		Answer:   "Your streak tracks consecutive days of completing at least one task. Building a streak shows consistency and earns you recognition in the community.",
	},
	{
		Question: "How secure is my data?",
		Answer:   "We take security seriously. Your data is encrypted, and we use Telegram's secure authentication system. We never share your personal information with third parties.",
	},
	{
		Question: "Can I update my profile?",
		Answer:   "Yes! You can update your name, country, and profile picture anytime from the profile section.",
	},
}

// GetFAQ returns the FAQ content.
func (c *ContentController) GetFAQ(ctx *gin.Context) {
	utils.Success(ctx, faqData)
}
