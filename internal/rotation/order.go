package rotation

import (
	"sort"
	"strings"

	"github.com/systmms/sarotate/internal/credstore"
	"github.com/systmms/sarotate/internal/logging"
)

// BuildOrder produces a usage order that spreads consumption evenly across
// the distinct projects present: round-robin across projects, alphabetical
// by client email within a project. The output is always a permutation of
// the input.
//
// Unequal project sizes are reported as an advisory warning naming the
// short projects; rotation proceeds regardless.
func BuildOrder(records []*credstore.Record, logger *logging.Logger) []*credstore.Record {
	byProject := make(map[string][]*credstore.Record)
	for _, record := range records {
		byProject[record.ProjectID] = append(byProject[record.ProjectID], record)
	}

	projects := make([]string, 0, len(byProject))
	maxSize := 0
	for project, members := range byProject {
		projects = append(projects, project)
		sort.Slice(members, func(i, j int) bool {
			return members[i].ClientEmail < members[j].ClientEmail
		})
		if len(members) > maxSize {
			maxSize = len(members)
		}
	}
	sort.Strings(projects)

	warnUnevenProjects(byProject, projects, maxSize, logger)

	order := make([]*credstore.Record, 0, len(records))
	for i := 0; i < maxSize; i++ {
		for _, project := range projects {
			members := byProject[project]
			if i < len(members) {
				order = append(order, members[i])
			}
		}
	}
	return order
}

func warnUnevenProjects(byProject map[string][]*credstore.Record, projects []string, maxSize int, logger *logging.Logger) {
	var short []string
	for _, project := range projects {
		if len(byProject[project]) < maxSize {
			short = append(short, project)
		}
	}
	if len(short) > 0 {
		logger.Warn("Projects %s have fewer accounts than the largest project (%d); usage will be uneven",
			strings.Join(short, ", "), maxSize)
	}
}
