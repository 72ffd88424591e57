//go:build linux || darwin

package cadentisnet

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

func sockaddrFromTCP(a *net.TCPAddr) (unix.Sockaddr, error) {
	if ip4 := a.IP.To4(); ip4 != nil {
		var addr [4]byte
		copy(addr[:], ip4)
		return &unix.SockaddrInet4{Port: a.Port, Addr: addr}, nil
	}
	if len(a.IP) == net.IPv6len {
		var addr [16]byte
		copy(addr[:], a.IP)
		return &unix.SockaddrInet6{Port: a.Port, Addr: addr}, nil
	}
	return nil, fmt.Errorf("cadentisnet: unsupported address %v", a)
}

func sockaddrToTCP(sa unix.Sockaddr) (*net.TCPAddr, error) {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IP(v.Addr[:]), Port: v.Port}, nil
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: net.IP(v.Addr[:]), Port: v.Port}, nil
	default:
		return nil, fmt.Errorf("cadentisnet: unsupported sockaddr %T", sa)
	}
}

func localAddr(fd int) (net.Addr, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return nil, err
	}
	return sockaddrToTCP(sa)
}

func remoteAddr(fd int) (net.Addr, error) {
	sa, err := unix.Getpeername(fd)
	if err != nil {
		return nil, err
	}
	return sockaddrToTCP(sa)
}
