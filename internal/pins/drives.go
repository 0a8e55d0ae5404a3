package pins

import "os"

func homeOnly() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{normalize(home)}
}
