package app

// SampleProgram prompts for a name and greets it. Its prompt matches
// domain.DefaultPromptMarker.
const SampleProgram = `#include <stdio.h>

int main(void) {
    char name[64];
    printf("What is your name?\n");
    if (scanf("%63s", name) != 1) {
        return 1;
    }
    printf("Hello, %s!\n", name);
    return 0;
}
`
