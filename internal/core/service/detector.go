package service

import "sort"

// findReusedGroups groups credential ids by their decrypted secret and
// returns every group with more than one member. The number of groups, not
// the number of affected records, is the reuse count reported upstream.
// Group order and member order are deterministic for stable test output.
func findReusedGroups(secretsByID map[string]string) [][]string {
	bySecret := make(map[string][]string, len(secretsByID))
	for id, secret := range secretsByID {
		bySecret[secret] = append(bySecret[secret], id)
	}

	var groups [][]string
	for _, ids := range bySecret {
		if len(ids) > 1 {
			sort.Strings(ids)
			groups = append(groups, ids)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}
