package agents

import (
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
)

// Role identifies one of the five fixed agent personas. The set is closed;
// there is no open-ended registration.
type Role string

const (
	RoleResearcher  Role = "Researcher"
	RoleAccountant  Role = "Accountant"
	RoleRecommender Role = "Recommender"
	RoleBlogger     Role = "Blogger"
	RoleChatbot     Role = "Chatbot"
)

// AllRoles returns the closed role set in declaration order.
func AllRoles() []Role {
	return []Role{RoleResearcher, RoleAccountant, RoleRecommender, RoleBlogger, RoleChatbot}
}

func (r Role) Valid() bool {
	switch r {
	case RoleResearcher, RoleAccountant, RoleRecommender, RoleBlogger, RoleChatbot:
		return true
	}
	return false
}

// Agent binds a role's persona to its model and tool capabilities.
type Agent struct {
	Role    Role
	Goal    string
	Persona string
	Model   model.ToolCallingChatModel
	Tools   []tool.BaseTool
}

// SystemPrompt renders the persona block placed at the head of every task
// conversation for this agent.
func (a *Agent) SystemPrompt() string {
	return fmt.Sprintf("You are the %s.\nGoal: %s\n%s", a.Role, a.Goal, a.Persona)
}

// rolePersonas holds the fixed goal and persona text per role.
var rolePersonas = map[Role]struct {
	goal    string
	persona string
}{
	RoleResearcher: {
		goal:    "Research a particular stock and provide insightful information.",
		persona: "You are meticulous and dive deep into the stock market to gather detailed information.",
	},
	RoleAccountant: {
		goal: "Calculate financial ratios using the calculator tool with proper formula format.",
		persona: "You are a financial analyst who calculates ratios using the calculator tool.\n" +
			"Always use the exact format:\n'Formula: [ratio_name] | Calculate: [numbers]'\n" +
			"If data is not available, input 'None' for the calculation.",
	},
	RoleRecommender: {
		goal:    "Analyze financial data and provide buy, sell, or hold recommendations.",
		persona: "You enjoy making tough decisions and providing clear investment advice.",
	},
	RoleBlogger: {
		goal:    "Format the research, calculations, and recommendations into a polished and readable blog post.",
		persona: "You have a knack for turning complex data into engaging, readable content.",
	},
	RoleChatbot: {
		goal:    "Answer user questions about stocks and cryptocurrencies using live market data.",
		persona: "You are a friendly market assistant. Use the market_data tool to ground every answer in current data.",
	},
}
